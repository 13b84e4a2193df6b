package repository

import "strings"

// likeEscaper 转义 LIKE 通配符，PostgreSQL 默认以反斜杠作为 ESCAPE 字符
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 构造“包含关键字”的 ILIKE 模式，关键字中的 % 和 _ 按字面匹配
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
