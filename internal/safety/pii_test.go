package safety

import "testing"

func findingTypes(text string) map[string]int {
	out := make(map[string]int)
	for _, f := range DetectPII(text) {
		out[f.Type]++
	}
	return out
}

func TestDetectPIIEmail(t *testing.T) {
	got := findingTypes("Reach me at jane.doe+work@example.co.uk for details.")
	if got[PIITypeEmail] != 1 {
		t.Errorf("expected 1 email finding, got %v", got)
	}
}

func TestDetectPIIPhone(t *testing.T) {
	tests := []string{
		"Call (555) 123-4567 anytime.",
		"Mobile: +1 555 123 4567",
		"555.123.4567",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if got := findingTypes(text); got[PIITypePhone] != 1 {
				t.Errorf("expected phone finding in %q, got %v", text, got)
			}
		})
	}
}

func TestDetectPIINationalID(t *testing.T) {
	got := findingTypes("SSN 123-45-6789 on file.")
	if got[PIITypeNationalID] != 1 {
		t.Errorf("expected national ID finding, got %v", got)
	}
}

func TestDetectPIICardNumber(t *testing.T) {
	got := findingTypes("Card: 4111 1111 1111 1111.")
	if got[PIITypeCardNumber] != 1 {
		t.Errorf("expected card finding, got %v", got)
	}
	if got[PIITypePhone] != 0 {
		t.Errorf("card digits must not double-report as phone, got %v", got)
	}
}

func TestDetectPIIBirthDate(t *testing.T) {
	tests := []string{
		"DOB: 01/02/1990",
		"Date of Birth: 1990-02-01",
		"born 02.01.1990",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if got := findingTypes(text); got[PIITypeBirthDate] != 1 {
				t.Errorf("expected birth date finding in %q, got %v", text, got)
			}
		})
	}
}

func TestDetectPIICleanText(t *testing.T) {
	clean := "I led a team of 12 engineers and shipped 3 products in 2023."
	if findings := DetectPII(clean); len(findings) != 0 {
		t.Errorf("clean text should yield no findings, got %v", findings)
	}
}

func TestDetectPIIDedupes(t *testing.T) {
	got := findingTypes("Email a@b.com twice: a@b.com")
	if got[PIITypeEmail] != 1 {
		t.Errorf("duplicate values should report once, got %v", got)
	}
}
