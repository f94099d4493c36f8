package service

import "fintrack/internal/models"

type TaxonomyService struct {
	taxonomy models.Taxonomy
}

func NewTaxonomyService(t models.Taxonomy) *TaxonomyService {
	return &TaxonomyService{taxonomy: t}
}

// Categories returns a copy callers may modify.
func (s *TaxonomyService) Categories() models.Taxonomy {
	return s.taxonomy.Clone()
}
