package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher esconde o algoritmo de hash por trás de um contrato
// pequeno; toda comparação de senha passa por Verify.
type PasswordHasher interface {
	Hash(senha string) (string, error)
	Verify(hash, senha string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher cria um hasher bcrypt com o custo informado. Custos
// abaixo do padrão adaptativo são elevados para bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(senha string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(senha), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func (h *bcryptHasher) Verify(hash, senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}
