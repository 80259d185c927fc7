package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cadastro-api/internal/domain"
	"cadastro-api/internal/service"
)

const mensagemErroInterno = "Ocorreu um erro interno no servidor."

// UsuarioHandler mantém dependências para os endpoints de CRUD de usuários.
type UsuarioHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
}

// NewUsuarioHandler cria uma instância de UsuarioHandler.
func NewUsuarioHandler(logger *zap.Logger, authServ *service.AuthService) *UsuarioHandler {
	return &UsuarioHandler{
		logger:   logger,
		authServ: authServ,
	}
}

// CreateUsuario maneja POST /usuarios.
func (h *UsuarioHandler) CreateUsuario(c *gin.Context) {
	var req struct {
		Email  string `json:"email"`
		Nome   string `json:"nome"`
		Senha  string `json:"senha"`
		Perfil string `json:"perfil"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("requisicao de cadastro invalida", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": "Dados incompletos para o cadastro."})
		return
	}

	usuario, err := h.authServ.CreateUser(c.Request.Context(), service.CriaUsuarioInput{
		Email:  req.Email,
		Nome:   req.Nome,
		Senha:  req.Senha,
		Perfil: req.Perfil,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"mensagem": "Dados incompletos para o cadastro."})
		case errors.Is(err, domain.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"mensagem": "O campo email já está em uso."})
		case errors.Is(err, domain.ErrDuplicateField):
			c.JSON(http.StatusConflict, gin.H{"mensagem": "Um campo único já está em uso."})
		default:
			h.logger.Error("erro ao criar usuario", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"mensagem": mensagemErroInterno})
		}
		return
	}

	c.JSON(http.StatusCreated, usuario)
}

// UpdateUsuario maneja PUT /usuarios/:id. Aceita qualquer subconjunto dos
// campos mutáveis; é o segundo passo do cadastro (pergunta/resposta).
func (h *UsuarioHandler) UpdateUsuario(c *gin.Context) {
	var req struct {
		Email    *string `json:"email"`
		Nome     *string `json:"nome"`
		Senha    *string `json:"senha"`
		Perfil   *string `json:"perfil"`
		Pergunta *string `json:"pergunta"`
		Resposta *string `json:"resposta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("requisicao de atualizacao invalida", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": "Dados inválidos."})
		return
	}

	usuario, err := h.authServ.UpdateUser(c.Request.Context(), c.Param("id"), service.AtualizaUsuarioInput{
		Email:    req.Email,
		Nome:     req.Nome,
		Senha:    req.Senha,
		Perfil:   req.Perfil,
		Pergunta: req.Pergunta,
		Resposta: req.Resposta,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"mensagem": "Dados inválidos."})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"mensagem": "Usuário não encontrado."})
		case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrDuplicateField):
			c.JSON(http.StatusConflict, gin.H{"mensagem": "Erro: um campo único já está em uso."})
		default:
			h.logger.Error("erro ao atualizar usuario", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"mensagem": mensagemErroInterno})
		}
		return
	}

	c.JSON(http.StatusOK, usuario)
}

// ListUsuarios maneja GET /usuarios, com filtros opcionais nome e email.
func (h *UsuarioHandler) ListUsuarios(c *gin.Context) {
	usuarios, err := h.authServ.ListUsers(c.Request.Context(), c.Query("nome"), c.Query("email"))
	if err != nil {
		h.logger.Error("erro ao listar usuarios", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"mensagem": mensagemErroInterno})
		return
	}
	c.JSON(http.StatusOK, usuarios)
}

// DeleteUsuario maneja DELETE /usuarios/:id.
func (h *UsuarioHandler) DeleteUsuario(c *gin.Context) {
	if err := h.authServ.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"mensagem": "Usuário não encontrado."})
			return
		}
		h.logger.Error("erro ao deletar usuario", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"mensagem": mensagemErroInterno})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensagem": "Usuário deletado!"})
}
