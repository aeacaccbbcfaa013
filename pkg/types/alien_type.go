// Package types 定义共享的基础类型
package types

// AlienType 外星生物类型ID，与 aliens.yaml 中的键对应
type AlienType string

const (
	AlienCrawler AlienType = "crawler" // 普通爬行者，数量最多
	AlienSpitter AlienType = "spitter" // 远程酸液喷射者
	AlienBrute   AlienType = "brute"   // 重甲冲撞者，体型大，生成时需要更大的空地
)
