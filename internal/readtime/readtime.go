// 包 readtime 根据正文估算阅读时长（纯函数，无 I/O、无状态）。
package readtime

import (
	"fmt"
	"regexp"
	"strings"
)

// WordsPerMinute 为阅读速度常量（200-250 之间取中）。
const WordsPerMinute = 225

var (
	fencedCode = regexp.MustCompile("```[\\s\\S]*?```")
	inlineCode = regexp.MustCompile("`[^`]*`")
	heading    = regexp.MustCompile(`#{1,6}\s`)
	image      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	link       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	emphasis   = regexp.MustCompile("[*_~`]")
)

// clean 去除代码、标题标记、强调符号与图片，链接只保留文字。
// 图片必须先于链接处理，否则 ![alt](src) 会残留 "!alt"。
func clean(body string) string {
	s := fencedCode.ReplaceAllString(body, " ")
	s = inlineCode.ReplaceAllString(s, " ")
	s = heading.ReplaceAllString(s, "")
	s = image.ReplaceAllString(s, " ")
	s = link.ReplaceAllString(s, "$1")
	s = emphasis.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// WordCount 返回清洗后的正文词数。
func WordCount(body string) int {
	return len(strings.Fields(clean(body)))
}

// Minutes 返回向上取整的阅读分钟数，最少 1 分钟。
func Minutes(body string) int {
	words := WordCount(body)
	m := (words + WordsPerMinute - 1) / WordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}

// Estimate 返回展示用的阅读时长文案，如 "1 min read" / "4 min read"。
func Estimate(body string) string {
	m := Minutes(body)
	if m == 1 {
		return "1 min read"
	}
	return fmt.Sprintf("%d min read", m)
}
