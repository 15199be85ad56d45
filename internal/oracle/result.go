package oracle

import (
	"encoding/json"
	"fmt"
)

// Clear results are typed per request kind and decoded through exactly one
// entry point each; coordinators never act on untyped bytes.

type eligibilityResult struct {
	Eligible *bool `json:"eligible"`
}

type issuanceResult struct {
	Credentials []string `json:"credentials"`
}

// DecodeEligibility decodes a verification result into its boolean outcome.
func DecodeEligibility(clearResult []byte) (bool, error) {
	var result eligibilityResult
	if err := json.Unmarshal(clearResult, &result); err != nil {
		return false, fmt.Errorf("decode eligibility result: %w", err)
	}
	if result.Eligible == nil {
		return false, fmt.Errorf("eligibility result missing outcome")
	}
	return *result.Eligible, nil
}

// DecodeCredentials decodes an issuance result into its credential strings.
// The first element is the anonymous credential; callers treat any extras as
// reserved. An empty sequence is an error.
func DecodeCredentials(clearResult []byte) ([]string, error) {
	var result issuanceResult
	if err := json.Unmarshal(clearResult, &result); err != nil {
		return nil, fmt.Errorf("decode issuance result: %w", err)
	}
	if len(result.Credentials) == 0 {
		return nil, fmt.Errorf("issuance result carries no credential")
	}
	return result.Credentials, nil
}

// EncodeEligibility builds the wire form of a verification result. Exported
// for the oracle simulator and tests.
func EncodeEligibility(eligible bool) []byte {
	b, _ := json.Marshal(eligibilityResult{Eligible: &eligible})
	return b
}

// EncodeCredentials builds the wire form of an issuance result.
func EncodeCredentials(credentials []string) []byte {
	b, _ := json.Marshal(issuanceResult{Credentials: credentials})
	return b
}
