package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cadastro-api/internal/domain"
	"cadastro-api/internal/repository"
)

// AuthService coordena cadastro, login e recuperação de senha.
type AuthService struct {
	logger   *zap.Logger
	usuarios repository.UsuarioRepository
	hasher   PasswordHasher
}

func NewAuthService(logger *zap.Logger, usuarios repository.UsuarioRepository, hasher PasswordHasher) *AuthService {
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &AuthService{
		logger:   logger,
		usuarios: usuarios,
		hasher:   hasher,
	}
}

// CriaUsuarioInput carrega os dados do primeiro passo do cadastro.
type CriaUsuarioInput struct {
	Email  string
	Nome   string
	Senha  string
	Perfil string
}

// AtualizaUsuarioInput carrega uma atualização parcial; campos nulos
// ficam intocados. Senha chega em texto claro e é re-hasheada aqui.
type AtualizaUsuarioInput struct {
	Email    *string
	Nome     *string
	Senha    *string
	Perfil   *string
	Pergunta *string
	Resposta *string
}

// CreateUser valida os campos obrigatórios, hasheia a senha e persiste a
// nova conta. Email duplicado sai como domain.ErrDuplicateEmail.
func (s *AuthService) CreateUser(ctx context.Context, input CriaUsuarioInput) (domain.Usuario, error) {
	email := strings.TrimSpace(input.Email)
	nome := strings.TrimSpace(input.Nome)
	senha := strings.TrimSpace(input.Senha)
	perfil := strings.TrimSpace(input.Perfil)

	if email == "" || nome == "" || senha == "" || perfil == "" {
		return domain.Usuario{}, domain.ErrInvalidInput
	}
	if !domain.PerfilValido(perfil) {
		return domain.Usuario{}, domain.ErrInvalidInput
	}

	senhaHash, err := s.hasher.Hash(senha)
	if err != nil {
		return domain.Usuario{}, err
	}

	usuario := domain.Usuario{
		ID:        uuid.NewString(),
		Email:     email,
		Nome:      nome,
		Senha:     senhaHash,
		Perfil:    perfil,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.usuarios.Create(ctx, usuario); err != nil {
		return domain.Usuario{}, err
	}
	return usuario, nil
}

// UpdateUser aplica uma atualização parcial; é o segundo passo do
// cadastro (pergunta/resposta) e também a edição administrativa.
func (s *AuthService) UpdateUser(ctx context.Context, id string, input AtualizaUsuarioInput) (domain.Usuario, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Usuario{}, domain.ErrInvalidInput
	}
	if input.Perfil != nil && !domain.PerfilValido(*input.Perfil) {
		return domain.Usuario{}, domain.ErrInvalidInput
	}

	patch := repository.AtualizaUsuario{
		Email:    input.Email,
		Nome:     input.Nome,
		Perfil:   input.Perfil,
		Resposta: input.Resposta,
	}
	if input.Pergunta != nil {
		pergunta := truncaPergunta(*input.Pergunta)
		patch.Pergunta = &pergunta
	}
	if input.Senha != nil {
		senha := strings.TrimSpace(*input.Senha)
		if senha == "" {
			return domain.Usuario{}, domain.ErrInvalidInput
		}
		senhaHash, err := s.hasher.Hash(senha)
		if err != nil {
			return domain.Usuario{}, err
		}
		patch.Senha = &senhaHash
	}

	return s.usuarios.Update(ctx, id, patch)
}

// ListUsers filtra por nome (substring, sem distinção de caixa) e email
// (igualdade exata); filtros vazios são ignorados.
func (s *AuthService) ListUsers(ctx context.Context, nome, email string) ([]domain.Usuario, error) {
	return s.usuarios.List(ctx, nome, email)
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidInput
	}
	return s.usuarios.Delete(ctx, id)
}

// Authenticate verifica as credenciais e devolve a conta. Conta
// inexistente e senha errada produzem o mesmo erro, de propósito.
func (s *AuthService) Authenticate(ctx context.Context, email, senha string) (domain.Usuario, error) {
	email = strings.TrimSpace(email)
	senha = strings.TrimSpace(senha)
	if email == "" || senha == "" {
		return domain.Usuario{}, domain.ErrInvalidCredentials
	}

	usuario, err := s.usuarios.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Usuario{}, domain.ErrInvalidCredentials
		}
		return domain.Usuario{}, err
	}
	if usuario.Senha == "" || !s.hasher.Verify(usuario.Senha, senha) {
		return domain.Usuario{}, domain.ErrInvalidCredentials
	}
	return usuario, nil
}

// FindByEmail inicia a recuperação de senha; o handler expõe somente id
// e pergunta, nunca a resposta.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Usuario{}, domain.ErrNotFound
	}
	return s.usuarios.GetByEmail(ctx, email)
}

// VerifyRecoveryAnswer compara a tentativa com a resposta armazenada,
// literalmente, sem normalização. false é um resultado normal.
func (s *AuthService) VerifyRecoveryAnswer(ctx context.Context, id, tentativa string) (bool, error) {
	if id == "" || tentativa == "" {
		return false, domain.ErrInvalidInput
	}
	usuario, err := s.usuarios.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return usuario.Resposta == tentativa, nil
}

// ResetPassword troca a senha sem exigir a antiga: este fluxo só é
// alcançado depois que a resposta secreta foi verificada.
func (s *AuthService) ResetPassword(ctx context.Context, id, novaSenha string) (domain.Usuario, error) {
	novaSenha = strings.TrimSpace(novaSenha)
	if id == "" || novaSenha == "" {
		return domain.Usuario{}, domain.ErrInvalidInput
	}

	usuario, err := s.usuarios.GetByID(ctx, id)
	if err != nil {
		return domain.Usuario{}, err
	}

	senhaHash, err := s.hasher.Hash(novaSenha)
	if err != nil {
		return domain.Usuario{}, err
	}
	if err := s.usuarios.UpdateSenha(ctx, id, senhaHash); err != nil {
		return domain.Usuario{}, err
	}
	s.logger.Info("senha atualizada", zap.String("usuario_id", id))

	usuario.Senha = senhaHash
	return usuario, nil
}

// truncaPergunta corta a pergunta no limite de 175 caracteres; o limite
// vale por rune para não partir texto acentuado no meio.
func truncaPergunta(pergunta string) string {
	runes := []rune(pergunta)
	if len(runes) <= domain.PerguntaMaxLen {
		return pergunta
	}
	return string(runes[:domain.PerguntaMaxLen])
}
