package domain

import "time"

// Perfis aceitos no cadastro.
const (
	PerfilUsuario = "usuario"
	PerfilAdmin   = "admin"
)

// PerguntaMaxLen limita o tamanho da pergunta secreta.
const PerguntaMaxLen = 175

// Usuario representa uma conta persistida. Senha guarda o hash bcrypt e
// Resposta o texto literal da resposta secreta; nenhum dos dois sai em JSON.
type Usuario struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nome      string    `json:"nome"`
	Senha     string    `json:"-"`
	Perfil    string    `json:"perfil"`
	Pergunta  string    `json:"pergunta,omitempty"`
	Resposta  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// PerfilValido informa se o perfil pertence ao conjunto fechado.
func PerfilValido(perfil string) bool {
	return perfil == PerfilUsuario || perfil == PerfilAdmin
}
