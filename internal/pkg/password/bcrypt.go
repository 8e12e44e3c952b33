package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost é o fator de custo usado quando nenhum é configurado.
const DefaultCost = 12

// Hasher gera e verifica hashes de senha com bcrypt. Não guarda estado
// mutável e pode ser usado concorrentemente.
type Hasher struct {
	cost int
}

// NewHasher retorna um Hasher com cost, limitado à faixa válida do bcrypt.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash retorna um hash bcrypt com salt de secret. Duas chamadas com o mesmo
// secret geram strings diferentes.
func (h *Hasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify informa se secret corresponde a hash. Hashes malformados retornam false.
func (h *Hasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
