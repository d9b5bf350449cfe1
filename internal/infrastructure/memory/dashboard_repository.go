package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

var hundred = decimal.NewFromInt(100)

// DashboardRepo consultas de lectura del tablero sobre el store en memoria.
type DashboardRepo struct {
	s session
}

// NewDashboardRepository construye el repositorio.
func NewDashboardRepository(store *Store) *DashboardRepo {
	return &DashboardRepo{s: session{store: store}}
}

func (r *DashboardRepo) SalesTotals(_ context.Context) (repository.SalesTotals, error) {
	defer r.s.lock()()
	st := r.s.store
	out := repository.SalesTotals{Revenue: decimal.Zero, COGS: decimal.Zero, PurchaseSpend: decimal.Zero}
	for _, o := range st.orders {
		switch {
		case o.Status == entity.OrderStatusPending:
			out.PendingOrders++
		case o.Status == entity.OrderStatusCompleted && o.Type == entity.OrderTypeSale:
			out.Revenue = out.Revenue.Add(o.Total)
			for _, it := range o.Items {
				if p, ok := st.products[it.ProductID]; ok {
					out.COGS = out.COGS.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
				}
			}
		case o.Status == entity.OrderStatusCompleted && o.Type == entity.OrderTypePurchase:
			out.PurchaseSpend = out.PurchaseSpend.Add(o.Total)
		}
	}
	return out, nil
}

func (r *DashboardRepo) DailySales(_ context.Context, since time.Time) ([]repository.DailySales, error) {
	defer r.s.lock()()
	byDay := map[string]*repository.DailySales{}
	for _, o := range r.s.store.orders {
		if o.Type != entity.OrderTypeSale || o.Status != entity.OrderStatusCompleted || o.CreatedAt.Before(since) {
			continue
		}
		day := o.CreatedAt.UTC()
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		key := day.Format(time.DateOnly)
		ds, ok := byDay[key]
		if !ok {
			ds = &repository.DailySales{Date: day, Revenue: decimal.Zero}
			byDay[key] = ds
		}
		ds.Revenue = ds.Revenue.Add(o.Total)
		ds.Orders++
	}
	out := make([]repository.DailySales, 0, len(byDay))
	for _, ds := range byDay {
		out = append(out, *ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *DashboardRepo) CategoryBreakdown(_ context.Context) ([]repository.CategoryStat, error) {
	defer r.s.lock()()
	type acc struct {
		stat      repository.CategoryStat
		marginSum decimal.Decimal
	}
	byCat := map[string]*acc{}
	for _, p := range r.s.store.products {
		a, ok := byCat[p.Category]
		if !ok {
			a = &acc{stat: repository.CategoryStat{Category: p.Category, TotalValue: decimal.Zero}, marginSum: decimal.Zero}
			byCat[p.Category] = a
		}
		a.stat.Products++
		a.stat.TotalUnits += p.Quantity
		a.stat.TotalValue = a.stat.TotalValue.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
		if p.SellingPrice.IsPositive() {
			a.marginSum = a.marginSum.Add(p.SellingPrice.Sub(p.CostPrice).Div(p.SellingPrice).Mul(hundred))
		}
	}
	out := make([]repository.CategoryStat, 0, len(byCat))
	for _, a := range byCat {
		a.stat.AvgMargin = a.marginSum.Div(decimal.NewFromInt(int64(a.stat.Products)))
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalValue.Cmp(out[j].TotalValue); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *DashboardRepo) TopProducts(_ context.Context, limit int) ([]repository.TopProduct, error) {
	defer r.s.lock()()
	byProduct := map[string]*repository.TopProduct{}
	for _, o := range r.s.store.orders {
		if o.Type != entity.OrderTypeSale || o.Status != entity.OrderStatusCompleted {
			continue
		}
		for _, it := range o.Items {
			tp, ok := byProduct[it.ProductID]
			if !ok {
				tp = &repository.TopProduct{ProductID: it.ProductID, ProductName: it.ProductName, SKU: it.SKU, TotalRevenue: decimal.Zero}
				byProduct[it.ProductID] = tp
			}
			tp.TotalSold += it.Quantity
			tp.TotalRevenue = tp.TotalRevenue.Add(it.Subtotal)
		}
	}
	out := make([]repository.TopProduct, 0, len(byProduct))
	for _, tp := range byProduct {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return page(out, limit, 0), nil
}

func (r *DashboardRepo) AlertProducts(_ context.Context) ([]*entity.Product, error) {
	defer r.s.lock()()
	var out []*entity.Product
	for _, p := range r.s.store.products {
		if p.Quantity <= p.MinStock {
			out = append(out, copyProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
