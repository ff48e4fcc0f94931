package web

import (
	"context"
	"errors"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/geo"
	"fahrtkosten-service/internal/providers"
	"fahrtkosten-service/internal/report"
)

// friendlyError turns pipeline errors into operator-readable messages.
// Technical detail stays in the logs.
func friendlyError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Zeitüberschreitung bei der Anfrage. Bitte erneut versuchen."
	case errors.Is(err, context.Canceled):
		return "Anfrage abgebrochen."
	}

	if fe, ok := providers.AsFetchError(err); ok {
		switch fe.Kind {
		case providers.KindAuth:
			return "Anmeldung beim Verband fehlgeschlagen. Zugangsdaten prüfen."
		case providers.KindParse:
			return "Die Verbandsseite lieferte ein unerwartetes Format."
		default:
			return "Verbandsseite nicht erreichbar. Bitte später erneut versuchen."
		}
	}

	if ge, ok := geo.AsError(err); ok {
		switch ge.Kind {
		case geo.KindInvalidAddress:
			if ge.Address != "" {
				return "Adresse konnte nicht aufgelöst werden: " + ge.Address
			}
			return "Für dieses Spiel ist keine Spielort-Adresse hinterlegt."
		case geo.KindRateLimited:
			return "Kartendienst-Kontingent erschöpft. Bitte später erneut versuchen."
		default:
			return "Kartendienst nicht erreichbar. Bitte später erneut versuchen."
		}
	}

	if _, ok := report.AsTemplateError(err); ok {
		return "Das PDF-Formular ist fehlerhaft oder unvollständig."
	}
	if _, ok := report.AsCapacityError(err); ok {
		return "Zu viele Positionen für ein Formularblatt."
	}
	if ve, ok := domain.AsValidationError(err); ok {
		return "Eingabedaten unvollständig: " + ve.Error()
	}

	return "Unerwarteter Fehler. Details im Serverlog."
}
