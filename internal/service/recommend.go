package service

import (
	"context"
	"sort"
	"time"

	"github.com/shoplift/engage/internal/domain"
	"github.com/shoplift/engage/internal/metrics"
	store "github.com/shoplift/engage/internal/repository"
)

const defaultRecommendLimit = 5

// trendingCandidates is how deep personalization looks into the trending
// pool before re-ranking.
const trendingCandidates = 50

// Recommend produces a ranked product list for the requested mode. All four
// modes are deterministic given identical store state.
func (s *Service) Recommend(ctx context.Context, req domain.RecommendRequest) ([]domain.Product, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	var products []domain.Product
	var err error
	switch req.Mode {
	case domain.ModeTrending:
		products, err = s.trending(ctx, limit)
	case domain.ModePersonalized:
		products, err = s.personalized(ctx, req.CustomerID, limit)
	case domain.ModeCrossSell:
		products, err = s.crossSell(ctx, req.ProductIDs, limit)
	case domain.ModeUpsell:
		products, err = s.upsell(ctx, req.ProductIDs, limit)
	default:
		return nil, domain.Ef(domain.KindValidation, "unknown recommendation mode %q", req.Mode)
	}

	result := "ok"
	if err != nil {
		result = string(domain.KindOf(err))
	}
	metrics.Recommendations.WithLabelValues(string(req.Mode), result).Inc()
	return products, err
}

// trending ranks by recent view+purchase volume, ties by most recent
// interaction.
func (s *Service) trending(ctx context.Context, limit int) ([]domain.Product, error) {
	counts, err := s.trendingCounts(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, domain.E(domain.KindExhausted, "no trending data")
	}
	return s.productsInOrder(ctx, counts)
}

func (s *Service) trendingCounts(ctx context.Context, limit int) ([]store.ProductCount, error) {
	since := s.now().Add(-time.Duration(s.config.Tunables.TrendingWindowDays) * 24 * time.Hour)
	counts, err := s.store.TopProductCounts(ctx, since, limit)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load trending counts", err)
	}
	return counts, nil
}

// productsInOrder fetches the products and restores the aggregate ordering.
func (s *Service) productsInOrder(ctx context.Context, counts []store.ProductCount) ([]domain.Product, error) {
	ids := make([]string, len(counts))
	for i, c := range counts {
		ids[i] = c.ProductID
	}
	fetched, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load products", err)
	}
	byID := make(map[string]domain.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ProductID] = p
	}
	ordered := make([]domain.Product, 0, len(counts))
	for _, c := range counts {
		if p, ok := byID[c.ProductID]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// personalized scores trending candidates by the customer's category
// affinity, with the trending volume as tiebreaker. A customer with no
// history gets exactly the trending output.
func (s *Service) personalized(ctx context.Context, customerID string, limit int) ([]domain.Product, error) {
	if customerID == "" {
		return nil, domain.E(domain.KindValidation, "personalized mode requires a customer id")
	}

	affinity, err := s.store.CustomerCategoryCounts(ctx, customerID)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load category affinity", err)
	}
	if len(affinity) == 0 {
		return s.trending(ctx, limit)
	}

	counts, err := s.trendingCounts(ctx, trendingCandidates)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, domain.E(domain.KindExhausted, "no trending data")
	}

	candidates, err := s.productsInOrder(ctx, counts)
	if err != nil {
		return nil, err
	}

	affinityByCategory := make(map[string]int, len(affinity))
	for _, cc := range affinity {
		affinityByCategory[cc.Category] = cc.Count
	}
	countByID := make(map[string]int, len(counts))
	for _, c := range counts {
		countByID[c.ProductID] = c.Count
	}

	w := s.config.Tunables
	scored := make([]domain.ScoredProduct, len(candidates))
	for i, p := range candidates {
		scored[i] = domain.ScoredProduct{
			Product: p,
			Score: float64(affinityByCategory[p.Category])*w.CategoryWeight +
				float64(countByID[p.ProductID])*w.TrendingWeight,
		}
	}
	// Stable sort on top of the trending order keeps ties deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	result := make([]domain.Product, len(scored))
	for i, sp := range scored {
		result[i] = sp.Product
	}
	return result, nil
}

// crossSell aggregates association strength from every cart item to each
// candidate, excluding products already in the cart.
func (s *Service) crossSell(ctx context.Context, cartProductIDs []string, limit int) ([]domain.Product, error) {
	if len(cartProductIDs) == 0 {
		return nil, domain.E(domain.KindValidation, "cross_sell mode requires cart product ids")
	}

	assocs, err := s.store.ListAssociationsFrom(ctx, cartProductIDs)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load associations", err)
	}

	inCart := make(map[string]bool, len(cartProductIDs))
	for _, id := range cartProductIDs {
		inCart[id] = true
	}
	aggregate := make(map[string]int)
	for _, a := range assocs {
		if inCart[a.AssociatedProductID] {
			continue
		}
		aggregate[a.AssociatedProductID] += a.Strength
	}
	if len(aggregate) == 0 {
		return nil, domain.E(domain.KindExhausted, "no associated products")
	}

	ids := make([]string, 0, len(aggregate))
	for id := range aggregate {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if aggregate[ids[i]] != aggregate[ids[j]] {
			return aggregate[ids[i]] > aggregate[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	counts := make([]store.ProductCount, len(ids))
	for i, id := range ids {
		counts[i] = store.ProductCount{ProductID: id}
	}
	return s.productsInOrder(ctx, counts)
}

// upsell suggests same-category products priced above the reference, ranked
// by rating advantage then price proximity, so the suggestion stays
// plausible rather than merely expensive.
func (s *Service) upsell(ctx context.Context, productIDs []string, limit int) ([]domain.Product, error) {
	if len(productIDs) != 1 {
		return nil, domain.E(domain.KindValidation, "upsell mode requires exactly one product id")
	}

	ref, err := s.store.GetProduct(ctx, productIDs[0])
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load product", err)
	}
	if ref == nil {
		return nil, domain.Ef(domain.KindNotFound, "product %s not found", productIDs[0])
	}

	candidates, err := s.store.ListProductsInCategoryAbovePrice(ctx, ref.Category, ref.Price)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load upsell candidates", err)
	}
	if len(candidates) == 0 {
		return nil, domain.E(domain.KindExhausted, "no pricier alternative in category")
	}

	sort.Slice(candidates, func(i, j int) bool {
		advI := candidates[i].Rating - ref.Rating
		advJ := candidates[j].Rating - ref.Rating
		if advI != advJ {
			return advI > advJ
		}
		diffI := candidates[i].Price - ref.Price
		diffJ := candidates[j].Price - ref.Price
		if diffI != diffJ {
			return diffI < diffJ
		}
		return candidates[i].ProductID < candidates[j].ProductID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
