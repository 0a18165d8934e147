package algorithms

import "fmt"

// NoneAlgorithm produces unsecured JWTs (RFC 7518, section 3.6).
// Verifiers must reject these tokens; they exist to build negative fixtures.
type NoneAlgorithm struct {
	BaseAlgorithm
}

// NewNoneAlgorithm creates the "none" algorithm
func NewNoneAlgorithm() Algorithm {
	return &NoneAlgorithm{
		BaseAlgorithm: BaseAlgorithm{
			name:    "none",
			family:  FamilyNone,
			keyType: KeyTypeNone,
		},
	}
}

func (n *NoneAlgorithm) TransitKeyTypes() []string {
	return nil
}

func (n *NoneAlgorithm) SigningParams() map[string]interface{} {
	return map[string]interface{}{}
}

// Sign returns an empty signature
func (n *NoneAlgorithm) Sign(input []byte, key interface{}) ([]byte, error) {
	if err := n.KeyCheck(key); err != nil {
		return nil, err
	}
	return []byte{}, nil
}

// Verify accepts only an empty signature
func (n *NoneAlgorithm) Verify(input, signature []byte, key interface{}) error {
	if len(signature) != 0 {
		return fmt.Errorf("%w: none expects an empty signature", ErrInvalidSignature)
	}
	return nil
}

func init() {
	Register(NewNoneAlgorithm())
}
