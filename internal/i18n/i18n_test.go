package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, DefaultLanguage, Normalize(""))
	require.Equal(t, LanguageEnglish, Normalize("EN-us"))
	require.Equal(t, LanguageChinese, Normalize("zh_CN"))
	require.Equal(t, Language("ja"), Normalize("ja"), "unknown languages pass through")
}

func TestTranslateFallsBack(t *testing.T) {
	tests := []struct {
		lang Language
		key  Key
		want string
	}{
		{LanguageChinese, EmptyList, "暂无消息"},
		{LanguageEnglish, EmptyList, "no messages yet"},
		{Language("ja"), HelpQuit, "quit"},
		{"", HelpSearch, "search"},
		{LanguageEnglish, Key("missing.key"), "missing.key"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.lang.T(tt.key), "%q.T(%q)", tt.lang, tt.key)
	}
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "中文", LanguageChinese.DisplayName())
	require.Equal(t, "ja", Language("ja").DisplayName())
}
