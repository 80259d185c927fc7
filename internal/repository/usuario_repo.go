package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cadastro-api/internal/domain"
)

// AtualizaUsuario descreve uma atualização parcial: somente os campos
// não-nulos são escritos. Senha já deve chegar como hash.
type AtualizaUsuario struct {
	Email    *string
	Nome     *string
	Senha    *string
	Perfil   *string
	Pergunta *string
	Resposta *string
}

// UsuarioRepository define o contrato de persistência para usuários.
type UsuarioRepository interface {
	Create(ctx context.Context, usuario domain.Usuario) error
	GetByID(ctx context.Context, id string) (domain.Usuario, error)
	GetByEmail(ctx context.Context, email string) (domain.Usuario, error)
	Update(ctx context.Context, id string, patch AtualizaUsuario) (domain.Usuario, error)
	UpdateSenha(ctx context.Context, id, senhaHash string) error
	List(ctx context.Context, nome, email string) ([]domain.Usuario, error)
	Delete(ctx context.Context, id string) error
}

// PgUsuarioRepository implementa UsuarioRepository usando pgxpool.
type PgUsuarioRepository struct {
	pool *pgxpool.Pool
}

func NewPgUsuarioRepository(pool *pgxpool.Pool) *PgUsuarioRepository {
	return &PgUsuarioRepository{pool: pool}
}

const usuarioColumns = "id, email, nome, senha, perfil, pergunta, resposta, created_at"

func scanUsuario(row pgx.Row) (domain.Usuario, error) {
	var u domain.Usuario
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Nome,
		&u.Senha,
		&u.Perfil,
		&u.Pergunta,
		&u.Resposta,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Usuario{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Usuario{}, err
	}
	return u, nil
}

// mapUniqueViolation traduz violação de unicidade do Postgres para a
// taxonomia de domínio, distinguindo o email dos demais campos únicos.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return domain.ErrDuplicateEmail
		}
		return domain.ErrDuplicateField
	}
	return err
}

func (r *PgUsuarioRepository) Create(ctx context.Context, usuario domain.Usuario) error {
	const query = `
		INSERT INTO usuarios (id, email, nome, senha, perfil, pergunta, resposta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		usuario.ID,
		usuario.Email,
		usuario.Nome,
		usuario.Senha,
		usuario.Perfil,
		usuario.Pergunta,
		usuario.Resposta,
		usuario.CreatedAt,
	)
	return mapUniqueViolation(err)
}

func (r *PgUsuarioRepository) GetByID(ctx context.Context, id string) (domain.Usuario, error) {
	const query = `
		SELECT ` + usuarioColumns + `
		FROM usuarios
		WHERE id = $1
	`
	return scanUsuario(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUsuarioRepository) GetByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	const query = `
		SELECT ` + usuarioColumns + `
		FROM usuarios
		WHERE email = $1
	`
	return scanUsuario(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUsuarioRepository) Update(ctx context.Context, id string, patch AtualizaUsuario) (domain.Usuario, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(col string, val *string) {
		if val == nil {
			return
		}
		args = append(args, *val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("email", patch.Email)
	add("nome", patch.Nome)
	add("senha", patch.Senha)
	add("perfil", patch.Perfil)
	add("pergunta", patch.Pergunta)
	add("resposta", patch.Resposta)

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE usuarios SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), usuarioColumns,
	)
	u, err := scanUsuario(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Usuario{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *PgUsuarioRepository) UpdateSenha(ctx context.Context, id, senhaHash string) error {
	const query = `
		UPDATE usuarios
		SET senha = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, senhaHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgUsuarioRepository) List(ctx context.Context, nome, email string) ([]domain.Usuario, error) {
	query := "SELECT " + usuarioColumns + " FROM usuarios"
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if nome != "" {
		args = append(args, "%"+nome+"%")
		conds = append(conds, fmt.Sprintf("nome ILIKE $%d", len(args)))
	}
	if email != "" {
		args = append(args, email)
		conds = append(conds, fmt.Sprintf("email = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usuarios := make([]domain.Usuario, 0)
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

func (r *PgUsuarioRepository) Delete(ctx context.Context, id string) error {
	const query = `
		DELETE FROM usuarios
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
