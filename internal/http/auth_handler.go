package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cadastro-api/internal/domain"
	"cadastro-api/internal/service"
)

// AuthHandler mantém dependências para login e recuperação de senha.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
}

// NewAuthHandler cria uma instância de AuthHandler.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
	}
}

// Login maneja POST /login. Conta inexistente e senha errada respondem
// com o mesmo 401, sem diferenciá-las para o cliente.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("requisicao de login invalida", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"sucesso": false, "mensagem": "Credenciais inválidas"})
		return
	}

	usuario, err := h.authServ.Authenticate(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"sucesso": false, "mensagem": "Credenciais inválidas"})
			return
		}
		h.logger.Error("erro no login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"mensagem": mensagemErroInterno})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sucesso": true, "perfil": usuario.Perfil})
}

// BuscaUsuario maneja POST /buscaUsuario: primeiro passo da recuperação.
// Devolve somente o id e a pergunta secreta, nunca a resposta.
func (h *AuthHandler) BuscaUsuario(c *gin.Context) {
	var req struct {
		TentativaEmail string `json:"tentativaEmail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("requisicao de busca invalida", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"sucesso": false, "mensagem": "Usuário não encontrado."})
		return
	}

	usuario, err := h.authServ.FindByEmail(c.Request.Context(), req.TentativaEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"sucesso": false, "mensagem": "Usuário não encontrado."})
			return
		}
		h.logger.Error("erro ao buscar usuario", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"sucesso": false, "mensagem": mensagemErroInterno})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sucesso": true, "id": usuario.ID, "pergunta": usuario.Pergunta})
}

// VerificarResposta maneja POST /verificar-resposta. Resposta errada é um
// desfecho normal do fluxo e responde 401 para o cliente re-perguntar.
func (h *AuthHandler) VerificarResposta(c *gin.Context) {
	var req struct {
		ID                string `json:"id"`
		TentativaResposta string `json:"tentativaResposta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("requisicao de verificacao invalida", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"sucesso": false, "mensagem": "Dados incompletos."})
		return
	}

	correta, err := h.authServ.VerifyRecoveryAnswer(c.Request.Context(), req.ID, req.TentativaResposta)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"sucesso": false, "mensagem": "Dados incompletos."})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"sucesso": false, "mensagem": "Utilizador não encontrado."})
		default:
			h.logger.Error("erro ao verificar resposta", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"sucesso": false, "mensagem": mensagemErroInterno})
		}
		return
	}

	if !correta {
		c.JSON(http.StatusUnauthorized, gin.H{"sucesso": false, "mensagem": "Resposta de segurança incorreta."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sucesso": true})
}

// MudarSenha maneja POST /mudarSenha. Não exige a senha antiga: o fluxo
// só chega aqui depois de VerificarResposta.
func (h *AuthHandler) MudarSenha(c *gin.Context) {
	var req struct {
		ID        string `json:"id"`
		NovaSenha string `json:"NovaSenha"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("requisicao de troca de senha invalida", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"sucesso": false, "mensagem": "ID do usuário e nova senha são obrigatórios."})
		return
	}

	usuario, err := h.authServ.ResetPassword(c.Request.Context(), req.ID, req.NovaSenha)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"sucesso": false, "mensagem": "ID do usuário e nova senha são obrigatórios."})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"sucesso": false, "mensagem": "Usuário não encontrado."})
		default:
			h.logger.Error("erro ao mudar senha", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"sucesso": false, "mensagem": mensagemErroInterno})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sucesso":  true,
		"mensagem": "Senha atualizada com sucesso!",
		"perfil":   usuario.Perfil,
	})
}
