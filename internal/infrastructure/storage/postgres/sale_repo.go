package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/domain/sale"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
)

var saleColumns = []string{
	"id", "number",
	"total_amount", "total_cost", "total_profit", "item_count",
	"notes", "created_at",
}

var saleItemColumns = []string{
	"id", "sale_id", "product_id", "product_name",
	"quantity", "unit_price", "unit_cost", "subtotal", "profit",
}

// SaleRepo implements sale.Repository. Items cascade with their sale
// via the foreign key; the ledger is untouched by deletes.
type SaleRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the sale aggregate row.
func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns(saleColumns...).
		Values(
			s.ID, s.Number,
			s.TotalAmount, s.TotalCost, s.TotalProfit, s.ItemCount,
			s.Notes, s.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return mapError(fmt.Errorf("insert sale: %w", err), "sale")
	}

	return nil
}

// CreateItems inserts the sale's lines in one statement.
func (r *SaleRepo) CreateItems(ctx context.Context, items []sale.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder.Insert(saleItemsTable).Columns(saleItemColumns...)
	for i := range items {
		it := &items[i]
		q = q.Values(
			it.ID, it.SaleID, it.ProductID, it.ProductName,
			it.Quantity, it.UnitPrice, it.UnitCost, it.Subtotal, it.Profit,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return mapError(fmt.Errorf("insert sale items: %w", err), "sale item")
	}

	return nil
}

// GetByID retrieves the sale aggregate without lines.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"id": saleID}, saleID.String())
}

// GetByNumber retrieves a sale by its unique number.
func (r *SaleRepo) GetByNumber(ctx context.Context, number string) (*sale.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"number": number}, number)
}

func (r *SaleRepo) getOne(ctx context.Context, where squirrel.Eq, key string) (*sale.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sale.Sale
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", key)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	return &s, nil
}

// GetItems retrieves a sale's lines in insertion order.
func (r *SaleRepo) GetItems(ctx context.Context, saleID id.ID) ([]sale.SaleItem, error) {
	q := r.builder.Select(saleItemColumns...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sale.SaleItem
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select sale items: %w", err)
	}

	return items, nil
}

// Delete removes the sale; items cascade via the foreign key.
func (r *SaleRepo) Delete(ctx context.Context, saleID id.ID) error {
	sql := `DELETE FROM sales WHERE id = $1`

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, saleID)
	if err != nil {
		return mapError(fmt.Errorf("delete sale: %w", err), "sale")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}

	return nil
}

// List retrieves sales matching the filter, newest first.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]sale.Sale, error) {
	q := r.builder.Select(saleColumns...).From(salesTable)

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}

	q = q.OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []sale.Sale
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sales, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}

	return sales, nil
}

// CountItemsByProduct returns the number of sale lines referencing a
// product.
func (r *SaleRepo) CountItemsByProduct(ctx context.Context, productID id.ID) (int64, error) {
	sql := `SELECT COUNT(*) FROM sale_items WHERE product_id = $1`

	var count int64
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sale items: %w", err)
	}

	return count, nil
}

var _ sale.Repository = (*SaleRepo)(nil)
