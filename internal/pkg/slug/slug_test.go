package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake_Latin(t *testing.T) {
	assert.Equal(t, "home-cleaning", Make("Home Cleaning"))
	assert.Equal(t, "home-cleaning", Make("  Home   Cleaning  "))
	assert.Equal(t, "plumbing-24-7", Make("Plumbing 24/7"))
}

func TestMake_Cyrillic(t *testing.T) {
	assert.Equal(t, "uborka-kvartir", Make("Уборка квартир"))
	assert.Equal(t, "remont-holodilnikov", Make("Ремонт холодильников"))
}

func TestMake_StripsUnsafe(t *testing.T) {
	assert.Equal(t, "hello-world", Make("hello@world!"))
	assert.Equal(t, "", Make("!!!"))
}

func TestMake_NoDoubleDash(t *testing.T) {
	assert.Equal(t, "a-b", Make("a --- b"))
	assert.Equal(t, "a", Make("-a-"))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "home-cleaning-7", WithSuffix("home-cleaning", "7"))
	assert.Equal(t, "7", WithSuffix("", "7"))
}
