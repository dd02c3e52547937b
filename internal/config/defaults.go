package config

import "github.com/kfreiman/docshield/internal/pii"

// Default score thresholds shared by both built-in languages. The exact
// values were tuned on intake documents; treat them as a starting point, not
// ground truth.
const (
	defaultThreshold   = 0.50
	personThreshold    = 0.60
	phoneThreshold     = 0.55
	emailThreshold     = 0.60
	idThreshold        = 0.55
	locationThreshold  = 0.60
	defaultWindowSize  = 40
	strongKeywordDelta = 0.15
	weakKeywordDelta   = 0.10
)

// Default returns the built-in configuration: Spanish (default) and English
// bundles with their keyword and exclusion tables. All terms are stored
// folded; see pii.Fold.
func Default() *Configuration {
	return New("es", spanishBundle(), englishBundle())
}

func baseThresholds() map[pii.EntityType]float64 {
	return map[pii.EntityType]float64{
		pii.Person:       personThreshold,
		pii.PhoneNumber:  phoneThreshold,
		pii.EmailAddress: emailThreshold,
		pii.IDDocument:   idThreshold,
		pii.Location:     locationThreshold,
	}
}

func spanishBundle() *Bundle {
	return &Bundle{
		Language:         "es",
		ContextWindow:    defaultWindowSize,
		DefaultThreshold: defaultThreshold,
		Thresholds:       baseThresholds(),
		Labels: map[pii.EntityType]string{
			pii.Person:       "[NOMBRE]",
			pii.PhoneNumber:  "[TELEFONO]",
			pii.EmailAddress: "[CORREO]",
			pii.IDDocument:   "[DOCUMENTO]",
			pii.Location:     "[UBICACION]",
		},
		Keywords: []KeywordRule{
			{"telefono", pii.PhoneNumber, strongKeywordDelta},
			{"celular", pii.PhoneNumber, strongKeywordDelta},
			{"movil", pii.PhoneNumber, strongKeywordDelta},
			{"cel", pii.PhoneNumber, strongKeywordDelta},
			{"tel", pii.PhoneNumber, strongKeywordDelta},
			{"whatsapp", pii.PhoneNumber, strongKeywordDelta},
			{"fijo", pii.PhoneNumber, weakKeywordDelta},
			{"llamar", pii.PhoneNumber, weakKeywordDelta},
			{"llamenos", pii.PhoneNumber, weakKeywordDelta},

			{"cedula", pii.IDDocument, strongKeywordDelta},
			{"cedula de ciudadania", pii.IDDocument, strongKeywordDelta},
			{"cedula de extranjeria", pii.IDDocument, strongKeywordDelta},
			{"tarjeta de identidad", pii.IDDocument, strongKeywordDelta},
			{"registro civil", pii.IDDocument, strongKeywordDelta},
			{"pasaporte", pii.IDDocument, strongKeywordDelta},
			{"nit", pii.IDDocument, strongKeywordDelta},
			{"permiso especial", pii.IDDocument, strongKeywordDelta},
			{"pep", pii.IDDocument, weakKeywordDelta},
			{"documento", pii.IDDocument, weakKeywordDelta},
			{"identificacion", pii.IDDocument, weakKeywordDelta},

			{"correo", pii.EmailAddress, strongKeywordDelta},
			{"correo electronico", pii.EmailAddress, strongKeywordDelta},
			{"email", pii.EmailAddress, strongKeywordDelta},

			{"direccion", pii.Location, strongKeywordDelta},
			{"ciudad", pii.Location, weakKeywordDelta},
			{"barrio", pii.Location, strongKeywordDelta},
			{"municipio", pii.Location, weakKeywordDelta},
			{"residencia", pii.Location, weakKeywordDelta},
			{"vive en", pii.Location, strongKeywordDelta},

			{"senor", pii.Person, weakKeywordDelta},
			{"senora", pii.Person, weakKeywordDelta},
			{"nombre", pii.Person, strongKeywordDelta},
			{"don", pii.Person, weakKeywordDelta},
			{"dona", pii.Person, weakKeywordDelta},
		},
		Exclusions: map[pii.EntityType][]string{
			pii.IDDocument: {
				"factura", "pedido", "orden", "referencia", "codigo",
				"serial", "version", "guia", "radicado", "cuenta",
			},
			pii.PhoneNumber: {
				"referencia", "codigo", "serial", "factura",
			},
			pii.Location: {
				"url", "enlace",
			},
		},
		PersonStoplist: []string{
			"usted", "gracias", "atentamente", "cordialmente", "hola",
			"todos", "nadie", "favor", "adjunto",
		},
	}
}

func englishBundle() *Bundle {
	return &Bundle{
		Language:         "en",
		ContextWindow:    defaultWindowSize,
		DefaultThreshold: defaultThreshold,
		Thresholds:       baseThresholds(),
		Labels: map[pii.EntityType]string{
			pii.Person:       "[NAME]",
			pii.PhoneNumber:  "[PHONE]",
			pii.EmailAddress: "[EMAIL]",
			pii.IDDocument:   "[ID_DOCUMENT]",
			pii.Location:     "[LOCATION]",
		},
		Keywords: []KeywordRule{
			{"phone", pii.PhoneNumber, strongKeywordDelta},
			{"cell", pii.PhoneNumber, strongKeywordDelta},
			{"mobile", pii.PhoneNumber, strongKeywordDelta},
			{"tel", pii.PhoneNumber, strongKeywordDelta},
			{"telephone", pii.PhoneNumber, strongKeywordDelta},
			{"whatsapp", pii.PhoneNumber, strongKeywordDelta},
			{"call", pii.PhoneNumber, weakKeywordDelta},
			{"landline", pii.PhoneNumber, weakKeywordDelta},

			{"id", pii.IDDocument, strongKeywordDelta},
			{"national id", pii.IDDocument, strongKeywordDelta},
			{"citizen id", pii.IDDocument, strongKeywordDelta},
			{"identification", pii.IDDocument, strongKeywordDelta},
			{"identity card", pii.IDDocument, strongKeywordDelta},
			{"passport", pii.IDDocument, strongKeywordDelta},
			{"tax id", pii.IDDocument, strongKeywordDelta},
			{"civil registry", pii.IDDocument, strongKeywordDelta},
			{"permit", pii.IDDocument, weakKeywordDelta},
			{"document", pii.IDDocument, weakKeywordDelta},

			{"email", pii.EmailAddress, strongKeywordDelta},
			{"e-mail", pii.EmailAddress, strongKeywordDelta},
			{"mail", pii.EmailAddress, weakKeywordDelta},

			{"address", pii.Location, strongKeywordDelta},
			{"city", pii.Location, weakKeywordDelta},
			{"neighborhood", pii.Location, weakKeywordDelta},
			{"lives in", pii.Location, strongKeywordDelta},
			{"located in", pii.Location, strongKeywordDelta},

			{"mr", pii.Person, weakKeywordDelta},
			{"mrs", pii.Person, weakKeywordDelta},
			{"ms", pii.Person, weakKeywordDelta},
			{"name", pii.Person, strongKeywordDelta},
			{"contact", pii.Person, weakKeywordDelta},
		},
		Exclusions: map[pii.EntityType][]string{
			pii.IDDocument: {
				"invoice", "order", "reference", "code", "serial",
				"version", "tracking", "account", "ticket",
			},
			pii.PhoneNumber: {
				"reference", "code", "serial", "invoice",
			},
			pii.Location: {
				"url", "link",
			},
		},
		PersonStoplist: []string{
			"dear", "hello", "hi", "thanks", "regards", "everyone",
			"attached", "please", "monday", "tuesday", "wednesday",
			"thursday", "friday", "saturday", "sunday",
		},
	}
}
