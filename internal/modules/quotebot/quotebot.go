package quotebot

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Deterministic helpers behind the public quote assistant. No external AI
// service is involved; everything here is keyword heuristics.

// EstimateDTO is the estimate request body.
type EstimateDTO struct {
	Description string `json:"description" binding:"required"`
	DurationHrs float64 `json:"durationHours"`
	AreaAcres   float64 `json:"areaAcres"`
}

// Estimate is the computed price band for a described job.
type Estimate struct {
	ServiceType models.ServiceType `json:"serviceType"`
	PriceMin    int                `json:"priceMin"`
	PriceMax    int                `json:"priceMax"`
	Currency    string             `json:"currency"`
	Factors     []string           `json:"factors"`
}

// SEODTO is the SEO suggestion request body.
type SEODTO struct {
	Text  string `json:"text" binding:"required"`
	Topic string `json:"topic"`
}

// SEOSuggestion carries the generated metadata proposal.
type SEOSuggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// serviceKeywords maps description keywords to the service they indicate.
// First match in declaration order wins on ties.
var serviceKeywords = []struct {
	svc   models.ServiceType
	words []string
}{
	{models.ServiceSurveying, []string{"survey", "topograph", "volume", "stockpile", "construction progress"}},
	{models.ServiceMapping, []string{"map", "orthomosaic", "gis", "acre", "hectare", "parcel"}},
	{models.ServiceInspection, []string{"inspect", "roof", "tower", "bridge", "solar", "turbine", "pipeline", "thermal"}},
	{models.ServiceVideography, []string{"video", "film", "footage", "cinemat", "documentary", "promo", "wedding", "event"}},
	{models.ServiceAerialPhotography, []string{"photo", "picture", "image", "real estate", "property", "listing", "portrait"}},
}

// basePrices is the hourly band per service, in whole US dollars.
var basePrices = map[models.ServiceType][2]int{
	models.ServiceAerialPhotography: {150, 300},
	models.ServiceVideography:       {250, 500},
	models.ServiceMapping:           {300, 600},
	models.ServiceInspection:        {200, 450},
	models.ServiceSurveying:         {300, 650},
	models.ServiceOther:             {150, 400},
}

// SuggestService picks the service type whose keywords appear most often in
// the description. Falls back to ServiceOther when nothing matches.
func SuggestService(description string) models.ServiceType {
	text := strings.ToLower(description)

	best := models.ServiceOther
	bestScore := 0
	for _, entry := range serviceKeywords {
		score := 0
		for _, w := range entry.words {
			score += strings.Count(text, w)
		}
		if score > bestScore {
			best = entry.svc
			bestScore = score
		}
	}
	return best
}

// BuildEstimate turns a job description into a price band.
//
// The band starts from the per-service hourly base. Duration scales it
// linearly (minimum one hour), mapping jobs scale with area instead, and a
// handful of modifier keywords widen or shift the band.
func BuildEstimate(dto *EstimateDTO) *Estimate {
	svc := SuggestService(dto.Description)
	base := basePrices[svc]
	min, max := float64(base[0]), float64(base[1])
	factors := []string{fmt.Sprintf("base rate for %s", svc)}

	hours := dto.DurationHrs
	if hours < 1 {
		hours = 1
	}
	if (svc == models.ServiceMapping || svc == models.ServiceSurveying) && dto.AreaAcres > 0 {
		// Mapping is priced by coverage, roughly 10 acres an hour.
		hours = dto.AreaAcres / 10
		if hours < 1 {
			hours = 1
		}
		factors = append(factors, fmt.Sprintf("%.0f acres of coverage", dto.AreaAcres))
	} else if dto.DurationHrs > 1 {
		factors = append(factors, fmt.Sprintf("%.1f hours on site", dto.DurationHrs))
	}
	min *= hours
	max *= hours

	text := strings.ToLower(dto.Description)
	for _, mod := range []struct {
		word   string
		factor float64
		label  string
	}{
		{"urgent", 1.5, "rush scheduling"},
		{"rush", 1.5, "rush scheduling"},
		{"night", 1.3, "night operation"},
		{"4k", 1.2, "4K deliverables"},
		{"thermal", 1.4, "thermal imaging"},
		{"edit", 1.25, "post-production editing"},
	} {
		if strings.Contains(text, mod.word) {
			min *= mod.factor
			max *= mod.factor
			factors = append(factors, mod.label)
			break
		}
	}

	return &Estimate{
		ServiceType: svc,
		PriceMin:    roundTo(min, 25),
		PriceMax:    roundTo(max, 25),
		Currency:    "USD",
		Factors:     factors,
	}
}

// roundTo rounds n to the nearest multiple of step.
func roundTo(n float64, step int) int {
	s := float64(step)
	return int((n+s/2)/s) * step
}

var wordRe = regexp.MustCompile(`[a-z][a-z0-9'-]+`)

// stopwords excluded from keyword extraction.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"are": {}, "was": {}, "were": {}, "you": {}, "your": {}, "our": {},
	"from": {}, "have": {}, "has": {}, "will": {}, "can": {}, "all": {},
	"but": {}, "not": {}, "they": {}, "their": {}, "its": {}, "more": {},
	"when": {}, "what": {}, "which": {}, "who": {}, "how": {}, "into": {},
	"about": {}, "than": {}, "then": {}, "them": {}, "also": {}, "any": {},
}

// ExtractKeywords returns the top-n words of the text by frequency,
// longest-first on ties so the more specific term wins.
func ExtractKeywords(text string, n int) []string {
	counts := map[string]int{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) < 3 {
			continue
		}
		if _, skip := stopwords[w]; skip {
			continue
		}
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}

// BuildSEO produces a title and meta description proposal from page text.
func BuildSEO(dto *SEODTO) *SEOSuggestion {
	keywords := ExtractKeywords(dto.Text, 8)

	topic := strings.TrimSpace(dto.Topic)
	if topic == "" && len(keywords) > 0 {
		topic = titleCase(keywords[0])
	}
	if topic == "" {
		topic = "Drone Services"
	}

	title := topic
	if len(keywords) > 1 {
		title = fmt.Sprintf("%s | %s Services", topic, titleCase(keywords[1]))
	}
	if len(title) > 60 {
		title = title[:57] + "..."
	}

	desc := firstSentence(dto.Text)
	if desc == "" {
		desc = fmt.Sprintf("Professional %s services.", strings.ToLower(topic))
	}
	if len(desc) > 155 {
		desc = desc[:152] + "..."
	}

	return &SEOSuggestion{Title: title, Description: desc, Keywords: keywords}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// firstSentence pulls the first sentence-like chunk of the text.
func firstSentence(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	for _, sep := range []string{". ", "! ", "? "} {
		if i := strings.Index(text, sep); i > 0 {
			return text[:i+1]
		}
	}
	return text
}

// Handler handles quote-assistant HTTP requests.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/quote-bot")
	g.POST("/estimate", h.estimate)
	g.POST("/seo", h.seo)
}

// estimate POST /quote-bot/estimate (public)
func (h *Handler) estimate(c *gin.Context) {
	var dto EstimateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, BuildEstimate(&dto))
}

// seo POST /quote-bot/seo (public)
func (h *Handler) seo(c *gin.Context) {
	var dto SEODTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, BuildSEO(&dto))
}
