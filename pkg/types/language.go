// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
)

// Operating system families.
const (
	OSWindows OS = "windows"
	OSLinux   OS = "linux"
	OSMacOS   OS = "macos"
	OSOther   OS = "other"
)

// ErrInvalidLanguage is the sentinel error wrapped by InvalidLanguageError.
var ErrInvalidLanguage = errors.New("invalid language")

// languages lists every language a package can branch on.
var languages = []Language{
	"afrikaans", "arabic", "australian_english", "brazilian_portuguese", "british_english",
	"bulgarian", "canadian_english", "canadian_french", "chinese_simplified",
	"chinese_traditional", "czech", "danish", "dutch", "english", "finnish", "french",
	"german", "greek", "hebrew", "hungarian", "indonesian", "italian", "japanese",
	"korean", "mexican_spanish", "norwegian", "polish", "portuguese", "romanian",
	"russian", "spanish", "swedish", "thai", "turkish", "ukrainian", "vietnamese",
}

type (
	// Language is the output language of a profile.
	Language string

	// InvalidLanguageError is returned when a Language value is not recognized.
	InvalidLanguageError struct {
		Value Language
	}

	// OS is an operating system family a package can branch on.
	OS string
)

// ParseLanguage parses a language from its script spelling.
func ParseLanguage(s string) (Language, bool) {
	lang := Language(s)
	if ok, _ := lang.IsValid(); !ok {
		return "", false
	}
	return lang, true
}

// String returns the string representation of the Language.
func (l Language) String() string { return string(l) }

// IsValid returns whether the Language is known.
func (l Language) IsValid() (bool, []error) {
	if slices.Contains(languages, l) {
		return true, nil
	}
	return false, []error{&InvalidLanguageError{Value: l}}
}

// Error implements the error interface.
func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("invalid language %q", e.Value)
}

// Unwrap returns ErrInvalidLanguage for errors.Is() compatibility.
func (e *InvalidLanguageError) Unwrap() error { return ErrInvalidLanguage }

// ParseOS parses an operating system family from its script spelling.
func ParseOS(s string) (OS, bool) {
	switch os := OS(s); os {
	case OSWindows, OSLinux, OSMacOS, OSOther:
		return os, true
	default:
		return "", false
	}
}

// CurrentOS returns the family of the running host.
func CurrentOS() OS {
	return osFromGOOS(runtime.GOOS)
}

func osFromGOOS(goos string) OS {
	switch goos {
	case "windows":
		return OSWindows
	case "linux":
		return OSLinux
	case "darwin":
		return OSMacOS
	default:
		return OSOther
	}
}
