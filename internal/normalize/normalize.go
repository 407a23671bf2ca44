// Package normalize reconciles raw field sets from either extraction source
// into the one canonical listing record. Resolution per field is
// primary raw name, then legacy aliases, then the default. The function is
// total: every input, including one carrying an error marker, yields a valid
// CanonicalListing.
package normalize

import (
	"time"

	"go.uber.org/zap"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

// Defaults for required fields. Applied at normalization; required fields are
// never empty past this boundary.
const (
	DefaultAdresse       = "Ukjent adresse"
	DefaultTittel        = "Ukjent bolig"
	DefaultPris          = "Ukjent pris"
	DefaultType          = "Ukjent"
	DefaultAreal         = "Ukjent"
	DefaultAntallRom     = "Ukjent"
	DefaultByggeaar      = "Ukjent"
	DefaultEierform      = "Ukjent"
	DefaultEnergimerking = "Ukjent"
	DefaultBeliggenhet   = "Ukjent område"
)

// ErrorMarkerKey flags a raw field set produced by a failed extraction. Its
// presence forces the fully-defaulted record.
const ErrorMarkerKey = "error"

// aliasSources maps each canonical concept to its raw source names in
// priority order: primary first, legacy aliases after. Both the direct and
// the extended shape route through this one table, so callers cannot observe
// which source populated a field.
var aliasSources = map[string][]string{
	"adresse":           {"adresse"},
	"tittel":            {"tittel"},
	"pris":              {"pris", "prisantydning"},
	"type":              {"boligtype", "type"},
	"areal":             {"areal"},
	"antallRom":         {"antallRom", "rom"},
	"byggeaar":          {"byggeaar", "byggear"},
	"eierform":          {"eierform", "eieform"},
	"energimerking":     {"energimerking", "energimerke"},
	"beliggenhet":       {"beliggenhet", "omraade"},
	"fellesutgifter":    {"fellesutgifter", "felleskostnader"},
	"fellesgjeld":       {"fellesgjeld", "andelFellesgjeld"},
	"totalpris":         {"totalpris", "totalPris"},
	"omkostninger":      {"omkostninger", "kjopsomkostninger"},
	"kommunaleAvgifter": {"kommunaleAvgifter", "kommunaleAvg"},
	"eiendomsskatt":     {"eiendomsskatt"},
	"formuesverdi":      {"formuesverdi", "ligningsverdi"},
	"primaerrom":        {"primaerrom", "pRom"},
	"bruksareal":        {"bruksareal", "bra"},
	"tomteareal":        {"tomteareal", "tomt"},
	"etasje":            {"etasje"},
	"soverom":           {"soverom", "antallSoverom"},
	"parkering":         {"parkering"},
	"garasje":           {"garasje"},
	"balkong":           {"balkong"},
	"hage":              {"hage"},
	"heis":              {"heis"},
	"oppvarming":        {"oppvarming"},
	"internett":         {"internett"},
	"visningsdato":      {"visningsdato", "visning"},
	"budfrist":          {"budfrist"},
	"megler":            {"megler", "meglerNavn"},
	"finnkode":          {"finnkode", "finnKode"},
	"sistEndret":        {"sistEndret", "sist_endret"},
}

// Normalize maps a raw field set into the canonical record. Numeric-looking
// values stay display strings; only presence is normalized. A nil raw set or
// one carrying the error marker yields the fully-defaulted record keyed by
// the URL.
func Normalize(raw model.RawFieldSet, source model.RawSource, url string) model.CanonicalListing {
	listing := Defaulted(url)

	if raw == nil {
		return listing
	}
	if _, failed := raw.Get(ErrorMarkerKey); failed {
		zap.L().Warn("normalize: raw set carries error marker, using defaults",
			zap.String("source", string(source)),
			zap.String("url", url),
		)
		return listing
	}

	assign := fieldTargets(&listing)
	for canonical, sources := range aliasSources {
		target, ok := assign[canonical]
		if !ok {
			continue
		}
		if v, found := resolve(raw, sources); found {
			*target = v
		}
	}

	return listing
}

// Defaulted returns the fully-defaulted "unknown listing" record for a URL.
func Defaulted(url string) model.CanonicalListing {
	return model.CanonicalListing{
		URL:           url,
		Adresse:       DefaultAdresse,
		Tittel:        DefaultTittel,
		Pris:          DefaultPris,
		Type:          DefaultType,
		Areal:         DefaultAreal,
		AntallRom:     DefaultAntallRom,
		Byggeaar:      DefaultByggeaar,
		Eierform:      DefaultEierform,
		Energimerking: DefaultEnergimerking,
		Beliggenhet:   DefaultBeliggenhet,
		ScrapedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

// resolve returns the first present raw value by source priority.
func resolve(raw model.RawFieldSet, sources []string) (string, bool) {
	for _, name := range sources {
		if v, ok := raw.Get(name); ok {
			return v, true
		}
	}
	return "", false
}

// fieldTargets maps canonical keys to their struct fields. Exactly one
// canonical key exists per concept; nothing downstream sees aliased names.
func fieldTargets(l *model.CanonicalListing) map[string]*string {
	return map[string]*string{
		"adresse":           &l.Adresse,
		"tittel":            &l.Tittel,
		"pris":              &l.Pris,
		"type":              &l.Type,
		"areal":             &l.Areal,
		"antallRom":         &l.AntallRom,
		"byggeaar":          &l.Byggeaar,
		"eierform":          &l.Eierform,
		"energimerking":     &l.Energimerking,
		"beliggenhet":       &l.Beliggenhet,
		"fellesutgifter":    &l.Fellesutgifter,
		"fellesgjeld":       &l.Fellesgjeld,
		"totalpris":         &l.Totalpris,
		"omkostninger":      &l.Omkostninger,
		"kommunaleAvgifter": &l.KommunaleAvgifter,
		"eiendomsskatt":     &l.Eiendomsskatt,
		"formuesverdi":      &l.Formuesverdi,
		"primaerrom":        &l.Primaerrom,
		"bruksareal":        &l.Bruksareal,
		"tomteareal":        &l.Tomteareal,
		"etasje":            &l.Etasje,
		"soverom":           &l.Soverom,
		"parkering":         &l.Parkering,
		"garasje":           &l.Garasje,
		"balkong":           &l.Balkong,
		"hage":              &l.Hage,
		"heis":              &l.Heis,
		"oppvarming":        &l.Oppvarming,
		"internett":         &l.Internett,
		"visningsdato":      &l.Visningsdato,
		"budfrist":          &l.Budfrist,
		"megler":            &l.Megler,
		"finnkode":          &l.Finnkode,
		"sistEndret":        &l.SistEndret,
	}
}
