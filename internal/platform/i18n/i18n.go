// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package i18n resolves user-facing messages in the caller's language.

Messages are registered in a golang.org/x/text catalog keyed by a stable
identifier. Locale negotiation follows RFC 7231 Accept-Language semantics
through a [language.Matcher] over the supported tags.

Usage:

	locale := i18n.Negotiate(r.Header.Get("Accept-Language"), "en")
	msg := i18n.Lookup(locale, i18n.KeyUserBlocked, user.Email)
*/
package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
)

// # Message Keys

const (
	KeyUserNotFound        = "user_not_found"
	KeyUserBlocked         = "user_blocked"
	KeyUserInactive        = "user_inactive"
	KeyInvalidCredentials  = "invalid_credentials"
	KeyInvalidRefreshToken = "invalid_refresh_token"
	KeySessionStale        = "session_stale"
	KeyStaleVersion        = "stale_version"
	KeyForbidden           = "forbidden"
	KeyNotFound            = "not_found"
	KeyPaginationFailed    = "pagination_failed"
	KeyWrongPassword       = "wrong_current_password"
)

// # Catalog

var supported = []language.Tag{
	language.English,
	language.Spanish,
}

var (
	matcher  = language.NewMatcher(supported)
	messages = newCatalog()
)

var entries = map[language.Tag]map[string]string{
	language.English: {
		KeyUserNotFound:        "User not found",
		KeyUserBlocked:         "User %s is blocked",
		KeyUserInactive:        "User %s is inactive",
		KeyInvalidCredentials:  "Invalid email or password",
		KeyInvalidRefreshToken: "Invalid or expired refresh token",
		KeySessionStale:        "Your session is no longer valid, please sign in again",
		KeyStaleVersion:        "%s was modified by another request, reload it and try again",
		KeyForbidden:           "You do not have permission to perform this action",
		KeyNotFound:            "%s not found",
		KeyPaginationFailed:    "The requested page could not be loaded",
		KeyWrongPassword:       "The current password is incorrect",
	},
	language.Spanish: {
		KeyUserNotFound:        "Usuario no encontrado",
		KeyUserBlocked:         "El usuario %s está bloqueado",
		KeyUserInactive:        "El usuario %s está inactivo",
		KeyInvalidCredentials:  "Correo o contraseña inválidos",
		KeyInvalidRefreshToken: "Token de actualización inválido o expirado",
		KeySessionStale:        "Su sesión ya no es válida, inicie sesión nuevamente",
		KeyStaleVersion:        "%s fue modificado por otra solicitud, recárguelo e intente de nuevo",
		KeyForbidden:           "No tiene permiso para realizar esta acción",
		KeyNotFound:            "%s no encontrado",
		KeyPaginationFailed:    "No se pudo cargar la página solicitada",
		KeyWrongPassword:       "La contraseña actual es incorrecta",
	},
}

func newCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, byKey := range entries {
		for key, text := range byKey {
			// Keys and texts are static, SetString only fails on malformed tags.
			if err := builder.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
	return builder
}

// # Negotiation

// Supported reports whether locale is one of the catalog languages.
func Supported(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	for _, candidate := range supported {
		if candidate == tag {
			return true
		}
	}
	return false
}

// Negotiate picks the best supported locale for an Accept-Language header value.
// It returns fallback when the header is empty, malformed or matches nothing.
func Negotiate(acceptLanguage, fallback string) string {
	if acceptLanguage == "" {
		return fallback
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}

	return supported[index].String()
}

// # Lookup

// Lookup renders the message for key in locale, interpolating args.
// Unknown locales render in English.
func Lookup(locale, key string, args ...any) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	printer := message.NewPrinter(tag, message.Catalog(messages))
	return printer.Sprintf(key, args...)
}

// T renders key in the locale negotiated for the request carried by ctx.
func T(ctx context.Context, key string, args ...any) string {
	return Lookup(ctxutil.GetLocale(ctx), key, args...)
}
