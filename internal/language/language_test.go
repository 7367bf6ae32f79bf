package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("uz"))
	assert.True(t, Supported("ru"))
	assert.True(t, Supported("en"))
	assert.False(t, Supported("fr"))
	assert.False(t, Supported(""))
	assert.False(t, Supported("UZ"))
}

func TestResolve_ExplicitWins(t *testing.T) {
	assert.Equal(t, Russian, Resolve("ru", "What time do you open?"))
	assert.Equal(t, English, Resolve("en", "Привет"))
}

func TestResolve_UnsupportedExplicitFallsToDetection(t *testing.T) {
	assert.Equal(t, English, Resolve("fr", "What are your opening hours today, please tell me?"))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, Russian, Detect("Здравствуйте, во сколько вы открываетесь завтра утром?"))
	assert.Equal(t, English, Detect("What are your opening hours today, please tell me?"))
	assert.Equal(t, Default, Detect(""))
}

func TestMessages_AllLocalesPresent(t *testing.T) {
	for _, loc := range []Locale{Uzbek, Russian, English} {
		assert.NotEmpty(t, SystemPrompt(loc))
		assert.NotEmpty(t, GroundingPrompt(loc))
		assert.NotEmpty(t, ConfigErrorMessage(loc))
		assert.NotEmpty(t, QuotaErrorMessage(loc))
		assert.NotEmpty(t, GenericErrorMessage(loc))
	}
}

func TestMessages_UnknownLocaleFallsBack(t *testing.T) {
	assert.Equal(t, SystemPrompt(Default), SystemPrompt(Locale("xx")))
	assert.Equal(t, GenericErrorMessage(Default), GenericErrorMessage(Locale("xx")))
}
