// Package i18n 提供查看器界面文字的多语言版本。
package i18n

import "strings"

// Language 是简短的语言代码（如 zh、en）。
type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"

	// DefaultLanguage 未配置时的默认语言。
	DefaultLanguage = LanguageEnglish
)

// Normalize 将用户输入的语言值转换为统一的语言代码。
// 空字符串回退到默认语言，未知值原样保留。
func Normalize(value string) Language {
	lang := strings.ToLower(strings.TrimSpace(value))
	switch lang {
	case "":
		return DefaultLanguage
	case "zh", "zh-cn", "zh_cn", "zh-hans", "cn", "chinese", "中文":
		return LanguageChinese
	case "en", "en-us", "en_us", "en-gb", "english":
		return LanguageEnglish
	default:
		return Language(lang)
	}
}

// Key 标识一段界面文字。
type Key string

const (
	HelpUp            Key = "help.up"
	HelpDown          Key = "help.down"
	HelpPageUp        Key = "help.page_up"
	HelpPageDown      Key = "help.page_down"
	HelpHome          Key = "help.home"
	HelpEnd           Key = "help.end"
	HelpSearch        Key = "help.search"
	HelpCopy          Key = "help.copy"
	HelpRefresh       Key = "help.refresh"
	HelpQuit          Key = "help.quit"
	Loading           Key = "list.loading"
	LoadingOlder      Key = "list.loading_older"
	LoadingNewer      Key = "list.loading_newer"
	EmptyList         Key = "list.empty"
	SearchPlaceholder Key = "search.placeholder"
	NoMatch           Key = "search.no_match"
)

var catalog = map[Language]map[Key]string{
	LanguageEnglish: {
		HelpUp:            "up",
		HelpDown:          "down",
		HelpPageUp:        "page up",
		HelpPageDown:      "page down",
		HelpHome:          "top",
		HelpEnd:           "bottom",
		HelpSearch:        "search",
		HelpCopy:          "copy",
		HelpRefresh:       "redraw",
		HelpQuit:          "quit",
		Loading:           "loading…",
		LoadingOlder:      "loading older messages…",
		LoadingNewer:      "loading newer messages…",
		EmptyList:         "no messages yet",
		SearchPlaceholder: "search messages",
		NoMatch:           "no match for",
	},
	LanguageChinese: {
		HelpUp:            "上移",
		HelpDown:          "下移",
		HelpPageUp:        "上一页",
		HelpPageDown:      "下一页",
		HelpHome:          "顶部",
		HelpEnd:           "底部",
		HelpSearch:        "搜索",
		HelpCopy:          "复制",
		HelpRefresh:       "重绘",
		HelpQuit:          "退出",
		Loading:           "加载中…",
		LoadingOlder:      "正在加载更早的消息…",
		LoadingNewer:      "正在加载更新的消息…",
		EmptyList:         "暂无消息",
		SearchPlaceholder: "搜索消息",
		NoMatch:           "没有匹配",
	},
}

// T 返回 key 在该语言下的文字，缺失时依次回退到英文和 key 本身。
func (l Language) T(key Key) string {
	if s, ok := catalog[Normalize(string(l))][key]; ok {
		return s
	}
	if s, ok := catalog[LanguageEnglish][key]; ok {
		return s
	}
	return string(key)
}

// DisplayName 返回适合展示的语言名称。
func (l Language) DisplayName() string {
	switch Normalize(string(l)) {
	case LanguageChinese:
		return "中文"
	case LanguageEnglish:
		return "English"
	default:
		return string(l)
	}
}
