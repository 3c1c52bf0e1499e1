package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page      int
	PageSize  int
	SellerID  uint
	Sport     string
	Brand     string
	Gender    string
	Search    string
	Featured  *bool
	YouthSize *bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page      int
	PageSize  int
	UserID    uint
	WithItems bool
}
