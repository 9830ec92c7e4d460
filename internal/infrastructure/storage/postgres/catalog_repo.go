package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/domain/catalog/category"
	"stocktally/internal/domain/catalog/supplier"
)

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *TxManager) *CategoryRepo {
	return &CategoryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	q := r.builder.Insert("categories").
		Columns("id", "name", "description", "created_at", "updated_at").
		Values(c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return mapError(fmt.Errorf("insert category: %w", err), "category")
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"id": categoryID}, categoryID.String())
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*category.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name}, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, where squirrel.Eq, key string) (*category.Category, error) {
	q := r.builder.Select("id", "name", "description", "created_at", "updated_at").
		From("categories").
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c category.Category
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", key)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	q := r.builder.Update("categories").
		Set("name", c.Name).
		Set("description", c.Description).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return mapError(fmt.Errorf("update category: %w", err), "category")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", c.ID.String())
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return mapError(fmt.Errorf("delete category: %w", err), "category")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", categoryID.String())
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]category.Category, error) {
	sql := `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`

	var categories []category.Category
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &categories, sql); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}

var _ category.Repository = (*CategoryRepo)(nil)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *TxManager) *SupplierRepo {
	return &SupplierRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var supplierColumns = []string{
	"id", "name", "contact_name", "phone", "email", "address",
	"created_at", "updated_at",
}

func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Insert("suppliers").
		Columns(supplierColumns...).
		Values(s.ID, s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.CreatedAt, s.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return mapError(fmt.Errorf("insert supplier: %w", err), "supplier")
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	return r.getOne(ctx, squirrel.Eq{"id": supplierID}, supplierID.String())
}

func (r *SupplierRepo) GetByName(ctx context.Context, name string) (*supplier.Supplier, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name}, name)
}

func (r *SupplierRepo) getOne(ctx context.Context, where squirrel.Eq, key string) (*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From("suppliers").
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", key)
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Update("suppliers").
		Set("name", s.Name).
		Set("contact_name", s.ContactName).
		Set("phone", s.Phone).
		Set("email", s.Email).
		Set("address", s.Address).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return mapError(fmt.Errorf("update supplier: %w", err), "supplier")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", s.ID.String())
	}
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, supplierID)
	if err != nil {
		return mapError(fmt.Errorf("delete supplier: %w", err), "supplier")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).From("suppliers").OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var suppliers []supplier.Supplier
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &suppliers, sql, args...); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}
	return suppliers, nil
}

var _ supplier.Repository = (*SupplierRepo)(nil)
