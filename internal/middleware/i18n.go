// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

var (
	supportedTags = []language.Tag{
		language.English, // first entry is the fallback
		language.MustParse("zh-TW"),
	}
	langMatcher = language.NewMatcher(supportedTags)
	catalogName = map[language.Tag]string{
		language.English:            "en",
		language.MustParse("zh-TW"): "zh_TW",
	}
)

// I18nMiddleware picks the catalog from Accept-Language, e.g.
// "zh-TW,zh;q=0.9,en;q=0.8", and stores it as "lang".
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", matchLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func matchLanguage(header string) string {
	if header == "" {
		return "en"
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "en"
	}

	_, index, confidence := langMatcher.Match(tags...)
	if confidence == language.No {
		return "en"
	}
	return catalogName[supportedTags[index]]
}
