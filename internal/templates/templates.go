// Package templates renders the multilingual emergency alert texts.
//
// Rendering is strictly best effort: an unknown language silently falls
// back to the english template so that an unrecognized tag can never block
// an alert from going out.
package templates

import (
	"strconv"
	"strings"
	"time"
)

// LanguageEnglish is the fallback language tag. The english template is
// guaranteed to exist.
const LanguageEnglish = "english"

const timestampFormat = "2/1/2006, 3:04:05 pm"

// Params supplies the placeholder values for an emergency message. The
// current time is resolved at render time, not supplied by the caller.
type Params struct {
	GlacierName           string
	Region                string
	SafeZone              string
	FloodTimeMinutes      int
	EvacuationTimeMinutes int
}

// Option customises the renderer.
type Option func(*Renderer)

// WithClock overrides the clock used for the {currentTime} placeholder.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// Renderer substitutes named placeholders into per-language alert
// templates. Safe for concurrent use; templates are immutable.
type Renderer struct {
	location *time.Location
	now      func() time.Time
}

// NewRenderer constructs a Renderer with timestamps in Indian Standard
// Time, the timezone of every region in the contact directory.
func NewRenderer(opts ...Option) *Renderer {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}
	r := &Renderer{
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render produces the emergency alert text for the given language.
// Unknown languages render with the english template. Two renders of the
// same params moments apart differ in {currentTime}; callers must not
// assume idempotent output.
func (r *Renderer) Render(language string, params Params) string {
	tmpl, ok := emergencyTemplates[language]
	if !ok {
		tmpl = emergencyTemplates[LanguageEnglish]
	}

	replacer := strings.NewReplacer(
		"{glacierName}", params.GlacierName,
		"{region}", params.Region,
		"{safeZone}", params.SafeZone,
		"{floodTimeMinutes}", strconv.Itoa(params.FloodTimeMinutes),
		"{evacuationTimeMinutes}", strconv.Itoa(params.EvacuationTimeMinutes),
		"{currentTime}", r.CurrentTime(),
	)
	return replacer.Replace(tmpl)
}

// TestMessage returns the short system-check message for the given
// language, falling back to english.
func (r *Renderer) TestMessage(language string) string {
	msg, ok := testTemplates[language]
	if !ok {
		msg = testTemplates[LanguageEnglish]
	}
	return msg
}

// CurrentTime formats the current wall-clock time in IST.
func (r *Renderer) CurrentTime() string {
	return r.now().In(r.location).Format(timestampFormat)
}

// Languages lists every registered emergency template language.
func Languages() []string {
	out := make([]string, 0, len(emergencyTemplates))
	for lang := range emergencyTemplates {
		out = append(out, lang)
	}
	return out
}

var emergencyTemplates = map[string]string{
	"english": `🚨 GLACIAL EMERGENCY ALERT 🚨
Glacier: {glacierName}
Region: {region}
Risk Level: CRITICAL
Expected Flood: {floodTimeMinutes} minutes
Evacuation Zone: {safeZone}
Time: {currentTime}

⚠️ EVACUATE IMMEDIATELY TO SAFE AREAS ⚠️
Stay on high ground. Follow local authorities.`,

	"hindi": `🚨 हिमनदी आपातकालीन अलर्ट 🚨
हिमनद: {glacierName}
क्षेत्र: {region}
जोखिम स्तर: अतिखतरनाक
अपेक्षित बाढ़: {floodTimeMinutes} मिनट
निकासी क्षेत्र: {safeZone}
समय: {currentTime}

⚠️ तुरंत सुरक्षित स्थानों पर जाएं ⚠️
ऊंची जगह रहें। स्थानीय अधिकारियों का पालन करें।`,

	"garhwali": `🚨 हिमनद की खतरनाक स्थिति 🚨
हिमनद: {glacierName}
जागा: {region}
खतरा: बहुत ज्यादा
बाढ़: {floodTimeMinutes} मिनट मा आली
सुरक्षित जागा: {safeZone}

⚠️ तुरंत सुरक्षित जागा जाव ⚠️
ऊंची जागा रयाव। अधिकारी की बात मानाव।`,

	"kumaoni": `🚨 हिमनदी खतरा 🚨
हिमनद: {glacierName}
जगा: {region}
खतरा: बड़ा
बाढ़: {floodTimeMinutes} मिनट मा
सुरक्षित जगा: {safeZone}

⚠️ सुरक्षित जगा भाग जाव ⚠️
ऊंची जगा रयाव।`,

	"nepali": `🚨 हिमनदी आपतकालीन चेतावनी 🚨
हिमनद: {glacierName}
स्थान: {region}
जोखिम: अति उच्च
बाढी: {floodTimeMinutes} मिनेटमा
सुरक्षित ठाउँ: {safeZone}

⚠️ तुरुन्त सुरक्षित ठाउँमा जानुहोस् ⚠️`,

	"urdu": `🚨 برفانی ہنگامی انتباہ 🚨
گلیشیر: {glacierName}
علاقہ: {region}
خطرے کی سطح: انتہائی بلند
سیلاب: {floodTimeMinutes} منٹ میں
محفوظ علاقہ: {safeZone}

⚠️ فوری طور پر محفوظ علاقوں میں جائیں ⚠️`,
}

var testTemplates = map[string]string{
	"english":  "🧪 TEST ALERT: This is a test message from GlacialGuard emergency system. System operational.",
	"hindi":    "🧪 परीक्षण अलर्ट: यह ग्लेशियल गार्ड आपातकालीन सिस्टम से परीक्षण संदेश है। सिस्टम चालू है।",
	"garhwali": "🧪 टेस्ट: ग्लेशियल गार्ड सिस्टम ठीक च।",
	"kumaoni":  "🧪 टेस्ट: ग्लेशियल गार्ड सिस्टम ठीक छ।",
}
