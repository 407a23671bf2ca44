// Package prompt renders canonical listings into model prompts. Every
// canonical field appears in a labeled section, with an explicit
// "Ikke oppgitt" placeholder for absent optional fields so the model never
// reasons from a lexical nil.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

// NotProvided substitutes absent optional fields in prompts.
const NotProvided = "Ikke oppgitt"

// ExtendedExcerptBudget caps how much extended-analysis text is inlined into
// a prompt.
const ExtendedExcerptBudget = 1000

// TruncationMarker is appended when an excerpt was clipped to budget.
const TruncationMarker = " [utdrag avkortet]"

// analysisInstructions fixes the required output shape and array-size
// bounds. The bounds are a request to the model, not a guarantee; the
// parser still validates.
const analysisInstructions = `Du er en erfaren norsk boligrådgiver. Vurder boligannonsen over og svar KUN med ett gyldig JSON-objekt på denne formen:

{
  "score": <heltall 1-100, samlet vurdering>,
  "the_good": [<4-6 konkrete positive punkter>],
  "the_bad": [<3-5 konkrete negative punkter eller ting å undersøke>],
  "the_ugly": [<0-3 alvorlige funn, tom liste hvis ingen>],
  "summary": "<2-3 setninger med helhetsvurdering>"
}

Ingen tekst utenfor JSON-objektet.`

// chatSystemHeader opens the chat system prompt.
const chatSystemHeader = `Du er en hjelpsom norsk boligrådgiver. Svar kort og konkret på spørsmål om boligen under. Baser svarene dine utelukkende på opplysningene i denne konteksten; si ifra når noe ikke er oppgitt.`

// BuildAnalysisPrompt renders a canonical listing into the analysis prompt.
func BuildAnalysisPrompt(listing model.CanonicalListing) string {
	var b strings.Builder
	writeListingSections(&b, listing)
	b.WriteString("\n")
	b.WriteString(analysisInstructions)
	return b.String()
}

// BuildExtendedPrompt asks the model to extract listing fields and a written
// assessment from a full document text (e.g. the sales prospectus).
func BuildExtendedPrompt(docText string) string {
	const budget = 12000
	excerpt := Truncate(docText, budget)

	return fmt.Sprintf(`Du er en norsk boligrådgiver som leser en salgsoppgave. Dokumentet følger under.

Dokument:
%s

Svar KUN med ett gyldig JSON-objekt:
{
  "felter": {<feltnavn -> verdi som tekst, f.eks. "boligtype", "fellesgjeld", "byggeaar">},
  "vurdering": "<grundig vurdering av dokumentet i fritekst>"
}`, excerpt)
}

// BuildChatSystemPrompt assembles the bounded system context for a chat
// completion: listing sections plus an optional extended-analysis excerpt.
func BuildChatSystemPrompt(listing model.CanonicalListing, extended *model.ExtendedAnalysis) string {
	var b strings.Builder
	b.WriteString(chatSystemHeader)
	b.WriteString("\n\n")
	writeListingSections(&b, listing)

	if extended != nil && extended.Success && extended.Text != "" {
		b.WriteString("\n## Utvidet analyse (salgsoppgave)\n")
		b.WriteString(Truncate(extended.Text, ExtendedExcerptBudget))
		b.WriteString("\n")
	}

	return b.String()
}

// Truncate clips text to a character budget, appending the truncation marker
// when it clipped. The cut backs up to a rune boundary so a multi-byte rune
// straddling the budget never leaves invalid UTF-8 in the prompt.
func Truncate(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + TruncationMarker
}

func writeListingSections(b *strings.Builder, l model.CanonicalListing) {
	b.WriteString("## Grunninfo\n")
	writeField(b, "Tittel", l.Tittel)
	writeField(b, "Adresse", l.Adresse)
	writeField(b, "Område", l.Beliggenhet)
	writeField(b, "Boligtype", l.Type)
	writeField(b, "Eierform", l.Eierform)
	writeField(b, "Byggeår", l.Byggeaar)
	writeField(b, "Energimerking", l.Energimerking)
	writeField(b, "Annonse", l.URL)

	b.WriteString("\n## Økonomi\n")
	writeField(b, "Prisantydning", l.Pris)
	writeField(b, "Totalpris", l.Totalpris)
	writeField(b, "Omkostninger", l.Omkostninger)
	writeField(b, "Felleskostnader", l.Fellesutgifter)
	writeField(b, "Fellesgjeld", l.Fellesgjeld)
	writeField(b, "Kommunale avgifter", l.KommunaleAvgifter)
	writeField(b, "Eiendomsskatt", l.Eiendomsskatt)
	writeField(b, "Formuesverdi", l.Formuesverdi)

	b.WriteString("\n## Størrelse og fasiliteter\n")
	writeField(b, "Areal", l.Areal)
	writeField(b, "Primærrom", l.Primaerrom)
	writeField(b, "Bruksareal", l.Bruksareal)
	writeField(b, "Tomteareal", l.Tomteareal)
	writeField(b, "Etasje", l.Etasje)
	writeField(b, "Rom", l.AntallRom)
	writeField(b, "Soverom", l.Soverom)
	writeField(b, "Parkering", l.Parkering)
	writeField(b, "Garasje", l.Garasje)
	writeField(b, "Balkong", l.Balkong)
	writeField(b, "Hage", l.Hage)
	writeField(b, "Heis", l.Heis)
	writeField(b, "Oppvarming", l.Oppvarming)
	writeField(b, "Internett", l.Internett)

	b.WriteString("\n## Salgsprosess\n")
	writeField(b, "Visning", l.Visningsdato)
	writeField(b, "Budfrist", l.Budfrist)
	writeField(b, "Megler", l.Megler)
	writeField(b, "FINN-kode", l.Finnkode)
	writeField(b, "Sist endret", l.SistEndret)
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = NotProvided
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
