package mapper

import (
	"fmt"

	"virtual-budtender-be/internal/dto"
	"virtual-budtender-be/pkg/recommend"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToDTO(s *recommend.ScoredItem) dto.ProductDTO {
	it := s.Item

	thc := "N/A"
	if it.THCMin > 0 && it.THCMax > 0 {
		thc = fmt.Sprintf("%g-%g%%", it.THCMin, it.THCMax)
	}

	cbd := "N/A"
	if it.CBDMin > 0 && it.CBDMax > 0 {
		cbd = fmt.Sprintf("%g-%g%%", it.CBDMin, it.CBDMax)
	}

	price := "N/A"
	if it.Price > 0 {
		price = fmt.Sprintf("$%.2f", it.Price)
	}

	strain := it.Strain
	if strain == "" {
		strain = "Not specified"
	}

	description := it.Description
	if description == "" {
		description = "No description available."
	}

	effects := it.Effects
	if effects == nil {
		effects = []string{}
	}

	details := s.MatchDetails
	if details == nil {
		details = []string{}
	}

	return dto.ProductDTO{
		Id:           it.Id,
		Name:         it.Name,
		Category:     it.Category,
		Strain:       strain,
		THC:          thc,
		CBD:          cbd,
		Price:        price,
		Inventory:    it.Inventory,
		Description:  description,
		PhotoUrl:     it.PhotoURL,
		Effects:      effects,
		MatchDetails: details,
	}
}

func (m *ProductMapper) ToDTOs(scored []recommend.ScoredItem) []dto.ProductDTO {
	out := make([]dto.ProductDTO, 0, len(scored))
	for i := range scored {
		out = append(out, m.ToDTO(&scored[i]))
	}
	return out
}
