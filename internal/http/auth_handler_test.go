package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cadastro-api/internal/domain"
	"cadastro-api/internal/repository"
	"cadastro-api/internal/service"
)

type mockUsuarioRepo struct {
	byID    map[string]domain.Usuario
	byEmail map[string]string
	ordem   []string
}

func newMockUsuarioRepo() *mockUsuarioRepo {
	return &mockUsuarioRepo{
		byID:    make(map[string]domain.Usuario),
		byEmail: make(map[string]string),
	}
}

func (m *mockUsuarioRepo) Create(_ context.Context, usuario domain.Usuario) error {
	if _, ok := m.byEmail[usuario.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	m.byID[usuario.ID] = usuario
	m.byEmail[usuario.Email] = usuario.ID
	m.ordem = append(m.ordem, usuario.ID)
	return nil
}

func (m *mockUsuarioRepo) GetByID(_ context.Context, id string) (domain.Usuario, error) {
	usuario, ok := m.byID[id]
	if !ok {
		return domain.Usuario{}, domain.ErrNotFound
	}
	return usuario, nil
}

func (m *mockUsuarioRepo) GetByEmail(_ context.Context, email string) (domain.Usuario, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return domain.Usuario{}, domain.ErrNotFound
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUsuarioRepo) Update(_ context.Context, id string, patch repository.AtualizaUsuario) (domain.Usuario, error) {
	usuario, ok := m.byID[id]
	if !ok {
		return domain.Usuario{}, domain.ErrNotFound
	}
	if patch.Email != nil {
		if other, ok := m.byEmail[*patch.Email]; ok && other != id {
			return domain.Usuario{}, domain.ErrDuplicateEmail
		}
		delete(m.byEmail, usuario.Email)
		usuario.Email = *patch.Email
		m.byEmail[usuario.Email] = id
	}
	if patch.Nome != nil {
		usuario.Nome = *patch.Nome
	}
	if patch.Senha != nil {
		usuario.Senha = *patch.Senha
	}
	if patch.Perfil != nil {
		usuario.Perfil = *patch.Perfil
	}
	if patch.Pergunta != nil {
		usuario.Pergunta = *patch.Pergunta
	}
	if patch.Resposta != nil {
		usuario.Resposta = *patch.Resposta
	}
	m.byID[id] = usuario
	return usuario, nil
}

func (m *mockUsuarioRepo) UpdateSenha(_ context.Context, id, senhaHash string) error {
	usuario, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	usuario.Senha = senhaHash
	m.byID[id] = usuario
	return nil
}

func (m *mockUsuarioRepo) List(_ context.Context, nome, email string) ([]domain.Usuario, error) {
	usuarios := make([]domain.Usuario, 0)
	for _, id := range m.ordem {
		u, ok := m.byID[id]
		if !ok {
			continue
		}
		if nome != "" && !strings.Contains(strings.ToLower(u.Nome), strings.ToLower(nome)) {
			continue
		}
		if email != "" && u.Email != email {
			continue
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, nil
}

func (m *mockUsuarioRepo) Delete(_ context.Context, id string) error {
	usuario, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byEmail, usuario.Email)
	delete(m.byID, id)
	return nil
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	authSvc := service.NewAuthService(logger, newMockUsuarioRepo(), service.NewBcryptHasher(0))
	usuarioH := NewUsuarioHandler(logger, authSvc)
	authH := NewAuthHandler(logger, authSvc)
	return NewRouter(logger, usuarioH, authH)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return got
}

func TestCadastroELogin(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/usuarios", gin.H{
		"email": "a@b.com", "nome": "Ana", "senha": "pw123", "perfil": "usuario",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	criado := decodeBody(t, w)
	if criado["id"] == "" || criado["id"] == nil {
		t.Fatalf("expected generated id, got %v", criado)
	}
	if _, ok := criado["senha"]; ok {
		t.Fatalf("senha hash must not be serialized: %v", criado)
	}

	w = doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "a@b.com", "senha": "pw123"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["sucesso"] != true || resp["perfil"] != "usuario" {
		t.Fatalf("expected sucesso com perfil usuario, got %v", resp)
	}

	w = doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "a@b.com", "senha": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginErrosIndistinguiveis(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/usuarios", gin.H{
		"email": "a@b.com", "nome": "Ana", "senha": "pw123", "perfil": "usuario",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	senhaErrada := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "a@b.com", "senha": "errada"})
	emailErrado := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "x@y.com", "senha": "pw123"})

	if senhaErrada.Code != http.StatusUnauthorized || emailErrado.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", senhaErrada.Code, emailErrado.Code)
	}
	// As duas falhas têm de ser idênticas para quem chama.
	if senhaErrada.Body.String() != emailErrado.Body.String() {
		t.Fatalf("expected identical bodies, got %q vs %q",
			senhaErrada.Body.String(), emailErrado.Body.String())
	}
}

func TestCadastroEmailDuplicado(t *testing.T) {
	r := setupRouter()

	body := gin.H{"email": "a@b.com", "nome": "Ana", "senha": "pw", "perfil": "usuario"}
	if w := doJSON(t, r, http.MethodPost, "/usuarios", body); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/usuarios", gin.H{
		"email": "a@b.com", "nome": "Bia", "senha": "outra", "perfil": "admin",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["mensagem"] == "" || resp["mensagem"] == nil {
		t.Fatalf("expected mensagem in conflict body, got %v", resp)
	}

	// A primeira conta continua logando normalmente.
	if w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "a@b.com", "senha": "pw"}); w.Code != http.StatusOK {
		t.Fatalf("expected first account unaffected, got %d", w.Code)
	}
}

func TestCadastroDadosIncompletos(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/usuarios", gin.H{"email": "a@b.com", "nome": "Ana"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["mensagem"] != "Dados incompletos para o cadastro." {
		t.Fatalf("unexpected mensagem: %v", resp)
	}
}

func TestFluxoRecuperacaoDeSenha(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/usuarios", gin.H{
		"email": "a@b.com", "nome": "Ana", "senha": "antiga", "perfil": "usuario",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	id := decodeBody(t, w)["id"].(string)

	// Segundo passo do cadastro: pergunta e resposta secretas.
	w = doJSON(t, r, http.MethodPut, "/usuarios/"+id, gin.H{
		"pergunta": "Cidade natal?", "resposta": "Recife",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Passo 1 da recuperação: busca por email devolve id e pergunta.
	w = doJSON(t, r, http.MethodPost, "/buscaUsuario", gin.H{"tentativaEmail": "a@b.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	busca := decodeBody(t, w)
	if busca["sucesso"] != true || busca["id"] != id || busca["pergunta"] != "Cidade natal?" {
		t.Fatalf("unexpected busca body: %v", busca)
	}
	if _, ok := busca["resposta"]; ok {
		t.Fatalf("resposta must never be returned: %v", busca)
	}

	// Resposta errada: 401, desfecho normal.
	w = doJSON(t, r, http.MethodPost, "/verificar-resposta", gin.H{
		"id": id, "tentativaResposta": "Olinda",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	// Resposta certa: 200.
	w = doJSON(t, r, http.MethodPost, "/verificar-resposta", gin.H{
		"id": id, "tentativaResposta": "Recife",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Troca de senha encerra o fluxo e devolve o perfil.
	w = doJSON(t, r, http.MethodPost, "/mudarSenha", gin.H{"id": id, "NovaSenha": "nova123"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	troca := decodeBody(t, w)
	if troca["sucesso"] != true || troca["perfil"] != "usuario" || troca["mensagem"] == nil {
		t.Fatalf("unexpected mudarSenha body: %v", troca)
	}

	if w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "a@b.com", "senha": "nova123"}); w.Code != http.StatusOK {
		t.Fatalf("expected login with new password, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "a@b.com", "senha": "antiga"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected old password rejected, got %d", w.Code)
	}
}

func TestBuscaUsuarioNaoEncontrado(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/buscaUsuario", gin.H{"tentativaEmail": "nao@existe.com"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["sucesso"] != false {
		t.Fatalf("expected sucesso false, got %v", resp)
	}
}

func TestVerificarRespostaErros(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/verificar-resposta", gin.H{"id": "", "tentativaResposta": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/verificar-resposta", gin.H{
		"id": "inexistente", "tentativaResposta": "x",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMudarSenhaErros(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/mudarSenha", gin.H{"id": "", "NovaSenha": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/mudarSenha", gin.H{"id": "inexistente", "NovaSenha": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
