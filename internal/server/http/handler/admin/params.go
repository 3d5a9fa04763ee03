package admin

// 路由注册时以工厂形式挂到审计元数据上，由拦截器统一绑定校验；
// handler 内通过 bound[T] 取回，拿不到（未注册审计）时自行绑定兜底。

type MenuListReq struct {
	MenuName string `form:"menuName" json:"menuName"`
	Visible  string `form:"visible" json:"visible" binding:"omitempty,oneof=0 1"`
	Status   string `form:"status" json:"status" binding:"omitempty,oneof=0 1"`
	MenuType string `form:"menuTypeIds" json:"menuTypeIds"` // 逗号分隔: M,C,F,L
	ParentID *int64 `form:"parentId" json:"parentId"`
}

type MenuAddReq struct {
	MenuName  string `json:"menuName" binding:"required,max=50"`
	ParentID  int64  `json:"parentId" binding:"min=0"`
	OrderNum  int    `json:"orderNum"`
	Path      string `json:"path" binding:"max=200"`
	Component string `json:"component" binding:"max=255"`
	MenuType  string `json:"menuType" binding:"required,oneof=M C F L"`
	Visible   string `json:"visible" binding:"omitempty,oneof=0 1"`
	Status    string `json:"status" binding:"omitempty,oneof=0 1"`
	Perms     string `json:"perms" binding:"max=100"`
	Icon      string `json:"icon" binding:"max=100"`
}

type MenuEditReq struct {
	MenuID int64 `json:"menuId" binding:"required,min=1"`
	MenuAddReq
}

type MenuSortReq struct {
	MenuID   int64 `json:"menuId" binding:"required,min=1"`
	OrderNum int   `json:"orderNum"`
}

type OperLogListReq struct {
	Title    string `form:"title" json:"title"`
	OperName string `form:"operName" json:"operName"`
	Status   *int   `form:"status" json:"status" binding:"omitempty,oneof=0 1"`
	Page     int    `form:"page" json:"page"`
	Limit    int    `form:"limit" json:"limit"`
}
