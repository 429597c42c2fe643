// 包 locale 定义站点支持的语言枚举：
// - en/it/fr 三种语言，en 为参考语言（回退目标与覆盖率基准）
// - 提供名称/旗帜/BCP 47 标签
// - Negotiate 按 Cookie → Accept-Language → 参考语言 的顺序协商请求语言
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale 为受支持的语言代码。
type Locale string

const (
	EN Locale = "en"
	IT Locale = "it"
	FR Locale = "fr"
)

// Reference 为参考语言：内容最完整，作为回退目标与 100% 基准。
const Reference = EN

// CookieName 保存用户显式选择的语言。
const CookieName = "NEXT_LOCALE"

var all = []Locale{EN, IT, FR}

// matcher 的顺序必须与 all 一致，Match 返回的下标直接映射回 Locale。
var matcher = language.NewMatcher([]language.Tag{language.English, language.Italian, language.French})

// All 返回全部受支持语言（按固定顺序，参考语言在前）。
func All() []Locale {
	out := make([]Locale, len(all))
	copy(out, all)
	return out
}

// Parse 解析语言代码（不区分大小写，忽略空白）。
func Parse(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range all {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

func (l Locale) String() string { return string(l) }

// Valid 判断是否为受支持语言。
func (l Locale) Valid() bool {
	for _, x := range all {
		if x == l {
			return true
		}
	}
	return false
}

// Name 返回语言的本地名称。
func (l Locale) Name() string {
	switch l {
	case EN:
		return "English"
	case IT:
		return "Italiano"
	case FR:
		return "Français"
	}
	return string(l)
}

// Flag 返回语言对应的旗帜 emoji。
func (l Locale) Flag() string {
	switch l {
	case EN:
		return "🇬🇧"
	case IT:
		return "🇮🇹"
	case FR:
		return "🇫🇷"
	}
	return ""
}

// Tag 返回 BCP 47 标签。
func (l Locale) Tag() language.Tag {
	switch l {
	case IT:
		return language.Italian
	case FR:
		return language.French
	}
	return language.English
}

// Region 返回带地区的完整标识，如 en-US / it-IT / fr-FR。
func (l Locale) Region() string {
	switch l {
	case IT:
		return "it-IT"
	case FR:
		return "fr-FR"
	}
	return "en-US"
}

// Negotiate 协商请求语言：
// - Cookie 中的合法语言优先
// - 其次按 Accept-Language 匹配
// - 都失败时回退到 fallback（通常为配置的参考语言；非法时为 Reference）
func Negotiate(cookie, acceptLanguage string, fallback Locale) Locale {
	if !fallback.Valid() {
		fallback = Reference
	}
	if l, ok := Parse(cookie); ok {
		return l
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(all) {
		return fallback
	}
	return all[idx]
}
