package extract

// FieldSpec binds a raw field name to its ordered strategy chain.
type FieldSpec struct {
	Key        string
	Strategies []Strategy
}

// numberValue matches a digit-led value with optional thousand separators and
// a trailing unit (kr, m², etc.).
const numberValue = `([0-9][0-9 .,]*(?:\s*(?:kr|m²|m2|kvm))?)`

// fieldSpecs is the extraction table. Primary strategy first; selectors
// follow the portal's data-testid convention, the key-facts box is the
// secondary source, and the full-text label scan is the last resort.
var fieldSpecs = []FieldSpec{
	{Key: "tittel", Strategies: []Strategy{
		Selector(`[data-testid="object-title"]`),
		Selector("h1"),
	}},
	{Key: "adresse", Strategies: []Strategy{
		Selector(`[data-testid="object-address"]`),
		Selector(`span[class*="address"]`),
		KeyFact("Adresse"),
	}},
	{Key: "pris", Strategies: []Strategy{
		Selector(`[data-testid="pricing-indicative-price"] span:last-child`),
		KeyFact("Prisantydning"),
		LabelScan("Prisantydning", numberValue),
	}},
	{Key: "boligtype", Strategies: []Strategy{
		Selector(`[data-testid="info-property-type"] dd`),
		KeyFact("Boligtype"),
	}},
	{Key: "areal", Strategies: []Strategy{
		Selector(`[data-testid="info-usable-area"] dd`),
		KeyFact("Bruksareal"),
		LabelScan("Bruksareal", numberValue),
	}},
	{Key: "antallRom", Strategies: []Strategy{
		Selector(`[data-testid="info-rooms"] dd`),
		KeyFact("Rom"),
		LabelScan("Rom", `([0-9]+)`),
	}},
	{Key: "soverom", Strategies: []Strategy{
		Selector(`[data-testid="info-bedrooms"] dd`),
		KeyFact("Soverom"),
		LabelScan("Soverom", `([0-9]+)`),
	}},
	{Key: "byggeaar", Strategies: []Strategy{
		Selector(`[data-testid="info-construction-year"] dd`),
		KeyFact("Byggeår"),
		LabelScan("Byggeår", `([0-9]{4})`),
	}},
	{Key: "eierform", Strategies: []Strategy{
		Selector(`[data-testid="info-ownership-type"] dd`),
		KeyFact("Eieform"),
		KeyFact("Eierform"),
	}},
	{Key: "energimerking", Strategies: []Strategy{
		Selector(`[data-testid="energy-label"]`),
		KeyFact("Energimerking"),
	}},
	{Key: "beliggenhet", Strategies: []Strategy{
		Selector(`[data-testid="object-area"]`),
		Selector(`span[class*="local-area"]`),
	}},
	{Key: "fellesutgifter", Strategies: []Strategy{
		Selector(`[data-testid="pricing-common-monthly-cost"] dd`),
		KeyFact("Felleskost/mnd."),
		LabelScan("Felleskostnader", numberValue),
	}},
	{Key: "fellesgjeld", Strategies: []Strategy{
		Selector(`[data-testid="pricing-joint-debt"] dd`),
		KeyFact("Fellesgjeld"),
		LabelScan("Fellesgjeld", numberValue),
	}},
	{Key: "totalpris", Strategies: []Strategy{
		Selector(`[data-testid="pricing-total-price"] dd`),
		KeyFact("Totalpris"),
		LabelScan("Totalpris", numberValue),
	}},
	{Key: "omkostninger", Strategies: []Strategy{
		Selector(`[data-testid="pricing-registration-charge"] dd`),
		KeyFact("Omkostninger"),
		LabelScan("Omkostninger", numberValue),
	}},
	{Key: "kommunaleAvgifter", Strategies: []Strategy{
		Selector(`[data-testid="pricing-municipal-fees"] dd`),
		KeyFact("Kommunale avg."),
		LabelScan("Kommunale avgifter", numberValue),
	}},
	{Key: "eiendomsskatt", Strategies: []Strategy{
		KeyFact("Eiendomsskatt"),
		LabelScan("Eiendomsskatt", numberValue),
	}},
	{Key: "formuesverdi", Strategies: []Strategy{
		KeyFact("Formuesverdi"),
		LabelScan("Formuesverdi", numberValue),
	}},
	{Key: "primaerrom", Strategies: []Strategy{
		Selector(`[data-testid="info-primary-area"] dd`),
		KeyFact("Primærrom"),
		LabelScan("Primærrom", numberValue),
	}},
	{Key: "bruksareal", Strategies: []Strategy{
		Selector(`[data-testid="info-usable-area"] dd`),
		KeyFact("Bruksareal"),
	}},
	{Key: "tomteareal", Strategies: []Strategy{
		Selector(`[data-testid="info-plot-area"] dd`),
		KeyFact("Tomteareal"),
		LabelScan("Tomteareal", numberValue),
	}},
	{Key: "etasje", Strategies: []Strategy{
		Selector(`[data-testid="info-floor"] dd`),
		KeyFact("Etasje"),
	}},
	{Key: "parkering", Strategies: []Strategy{
		KeyFact("Parkering"),
	}},
	{Key: "garasje", Strategies: []Strategy{
		KeyFact("Garasje"),
	}},
	{Key: "balkong", Strategies: []Strategy{
		KeyFact("Balkong/terrasse"),
		KeyFact("Balkong"),
	}},
	{Key: "hage", Strategies: []Strategy{
		KeyFact("Hage"),
	}},
	{Key: "heis", Strategies: []Strategy{
		KeyFact("Heis"),
	}},
	{Key: "oppvarming", Strategies: []Strategy{
		KeyFact("Oppvarming"),
	}},
	{Key: "internett", Strategies: []Strategy{
		KeyFact("Internett"),
		KeyFact("Bredbånd"),
	}},
	{Key: "visningsdato", Strategies: []Strategy{
		Selector(`[data-testid="object-viewings"] time`),
		KeyFact("Visning"),
	}},
	{Key: "budfrist", Strategies: []Strategy{
		KeyFact("Budfrist"),
	}},
	{Key: "megler", Strategies: []Strategy{
		Selector(`[data-testid="broker-name"]`),
		KeyFact("Megler"),
	}},
	{Key: "finnkode", Strategies: []Strategy{
		Selector(`[data-testid="finnkode"]`),
		LabelScan("FINN-kode", `([0-9]{6,10})`),
	}},
	{Key: "sistEndret", Strategies: []Strategy{
		LabelScan("Sist endret", `([0-9]{1,2}\.\s*\w+\.?\s*[0-9]{4}[^,]*)`),
	}},
}
