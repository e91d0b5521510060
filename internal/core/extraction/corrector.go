package extraction

import (
	"strings"

	"github.com/agenthands/textgraph/internal/core/model"
)

// Company names the NLP engine tends to tag as locations.
var knownCompanies = setOf(
	"alibaba", "amazon", "google", "microsoft", "apple", "facebook", "meta",
	"tesla", "spacex", "twitter", "x", "netflix", "uber", "airbnb",
	"samsung", "sony", "intel", "amd", "nvidia", "oracle", "ibm",
	"tencent", "baidu", "salesforce", "cisco", "huawei", "xiaomi",
)

// Product names the NLP engine tends to tag as organizations or locations.
var knownProducts = setOf(
	"kindle", "echo", "fire tv", "fire stick", "alexa", "prime",
	"iphone", "ipad", "macbook", "airpods", "apple watch", "imac", "mac",
	"windows", "xbox", "surface", "office", "azure",
	"android", "chrome", "gmail", "google maps", "pixel",
	"playstation", "ps5", "nintendo switch", "tesla model s", "tesla model 3",
)

// Checked in order, each at most once. Comma forms come first so "Acme, Inc." loses the comma too.
var corporateSuffixes = []string{
	", Inc.", ", Inc", ", LLC", ", Ltd.",
	" Inc.", " Inc", " LLC", " Corp.", " Corporation", " Ltd.", " Limited", " Co.",
}

var locationAbbreviations = map[string]string{
	"U.S.":   "United States",
	"U.S.A.": "United States",
	"USA":    "United States",
	"U.K.":   "United Kingdom",
}

func setOf(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}

// CorrectType fixes labels the NLP engine is known to get wrong. Products win over companies.
func CorrectType(text, label string) string {
	key := strings.ToLower(strings.TrimSpace(text))
	if _, ok := knownProducts[key]; ok {
		return model.LabelProduct
	}
	if label == model.LabelGPE {
		if _, ok := knownCompanies[key]; ok {
			return model.LabelOrg
		}
	}
	return label
}

func isOrgLike(typ string) bool {
	switch typ {
	case model.LabelOrg, model.LabelGPE,
		string(model.EntityCompany), string(model.EntityOrganization), string(model.EntityLocation):
		return true
	}
	return false
}

func isLocation(typ string) bool {
	return typ == model.LabelGPE || typ == string(model.EntityLocation)
}

// NormalizeName strips corporate suffixes from organization and location names and expands
// well-known location abbreviations.
func NormalizeName(text, typ string) string {
	name := strings.TrimSpace(text)

	if isOrgLike(typ) {
		for _, suffix := range corporateSuffixes {
			if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
				name = strings.TrimSpace(name[:len(name)-len(suffix)])
			}
		}
	}

	if isLocation(typ) {
		if full, ok := locationAbbreviations[name]; ok {
			name = full
		}
	}
	return name
}
