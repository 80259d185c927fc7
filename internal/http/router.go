package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura o router do Gin com middlewares e rotas.
func NewRouter(
	logger *zap.Logger,
	usuarioH *UsuarioHandler,
	authH *AuthHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery e JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	// CRUD de usuários.
	usuarios := r.Group("/usuarios")
	usuarios.POST("", usuarioH.CreateUsuario)
	usuarios.PUT("/:id", usuarioH.UpdateUsuario)
	usuarios.GET("", usuarioH.ListUsuarios)
	usuarios.DELETE("/:id", usuarioH.DeleteUsuario)

	// Autenticação e recuperação de senha.
	r.POST("/login", authH.Login)
	r.POST("/buscaUsuario", authH.BuscaUsuario)
	r.POST("/verificar-resposta", authH.VerificarResposta)
	r.POST("/mudarSenha", authH.MudarSenha)

	return r
}

// zapLoggerMiddleware cria um middleware simples de logging com zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware força Content-Type: application/json nas respostas.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
