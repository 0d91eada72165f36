package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_AllPlaceholdersKnown(t *testing.T) {
	context := map[string]string{
		"clientName":    "Acme Corp",
		"invoiceNumber": "INV-2024-001",
		"amount":        "$1,250.00",
		"dueDate":       "Jun 10, 2024",
	}

	result := Render("Hi {{clientName}}, invoice {{invoiceNumber}} for {{amount}} is due {{dueDate}}.", context)

	assert.Equal(t, "Hi Acme Corp, invoice INV-2024-001 for $1,250.00 is due Jun 10, 2024.", result)
	assert.NotContains(t, result, "{{")
	assert.NotContains(t, result, "}}")
}

func TestRender_UnknownPlaceholderLeftVerbatim(t *testing.T) {
	result := Render("Hi {{clientName}}, ref {{unknownKey}}", map[string]string{
		"clientName": "Acme",
	})

	assert.Equal(t, "Hi Acme, ref {{unknownKey}}", result)
}

func TestRender_NoRecursiveSubstitution(t *testing.T) {
	context := map[string]string{
		"clientName": "{{amount}}",
		"amount":     "$100.00",
	}

	// The substituted value must not be scanned again.
	result := Render("Hello {{clientName}}", context)
	assert.Equal(t, "Hello {{amount}}", result)
}

func TestRender_KeysAreWordCharactersOnly(t *testing.T) {
	context := map[string]string{"client name": "Acme"}

	// Whitespace inside the braces is not a placeholder.
	result := Render("Hello {{client name}}", context)
	assert.Equal(t, "Hello {{client name}}", result)
}

func TestRender_EmptyContext(t *testing.T) {
	result := Render("Dear {{clientName}}", nil)
	assert.Equal(t, "Dear {{clientName}}", result)
}

func TestRender_NoPlaceholders(t *testing.T) {
	result := Render("Plain reminder text.", map[string]string{"clientName": "Acme"})
	assert.Equal(t, "Plain reminder text.", result)
}

func TestPlaceholders(t *testing.T) {
	keys := Placeholders("{{clientName}} owes {{amount}} ({{clientName}}, {{invoiceNumber}})")
	assert.Equal(t, []string{"clientName", "amount", "invoiceNumber"}, keys)
}

func TestPlaceholders_None(t *testing.T) {
	assert.Empty(t, Placeholders("no placeholders here"))
}
