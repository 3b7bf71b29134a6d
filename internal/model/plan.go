package model

// Plan 积分套餐（对外展示）
// 来源于启动时加载的配置，运行期只读
type Plan struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Credits  int64    `json:"credits"`
	Features []string `json:"features"`
}
