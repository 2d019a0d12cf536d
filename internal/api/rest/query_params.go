package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/openmint-xyz/openmint/internal/api/shared/executor"
	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/store"
)

const MAX_PAGE_SIZE = 100

// ListNFTsQueryParams holds query parameters for GET /nfts
type ListNFTsQueryParams struct {
	// Pagination
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`

	// Filters
	Owner    string `form:"owner"`
	Creator  string `form:"creator"`
	Category string `form:"category"`
	Search   string `form:"search"`

	// Ordering
	Sort string `form:"sort,default=newest"`
}

// ParseListNFTsQuery parses and validates query parameters for GET /nfts
func ParseListNFTsQuery(c *gin.Context) (*ListNFTsQueryParams, error) {
	var params ListNFTsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	if params.Owner != "" && !domain.IsEthereumAddress(params.Owner) {
		return nil, fmt.Errorf("invalid owner address: %s", params.Owner)
	}
	if params.Creator != "" && !domain.IsEthereumAddress(params.Creator) {
		return nil, fmt.Errorf("invalid creator address: %s", params.Creator)
	}
	if params.Category != "" && !domain.IsValidCategory(domain.Category(params.Category)) {
		return nil, fmt.Errorf("invalid category: %s", params.Category)
	}

	// Sort orders are whitelisted; anything else falls back to newest
	switch store.NFTSort(params.Sort) {
	case store.NFTSortNewest, store.NFTSortOldest, store.NFTSortMostViewed, store.NFTSortMostLiked:
	default:
		params.Sort = string(store.NFTSortNewest)
	}

	return &params, nil
}

// ToExecutorParams converts the query parameters to listing parameters
func (p *ListNFTsQueryParams) ToExecutorParams() executor.ListNFTsParams {
	return executor.ListNFTsParams{
		Page:     p.Page,
		Limit:    p.Limit,
		Owner:    p.Owner,
		Creator:  p.Creator,
		Category: domain.Category(p.Category),
		Search:   p.Search,
		Sort:     store.NFTSort(p.Sort),
	}
}

// PaginationQueryParams holds plain limit/offset pagination parameters
type PaginationQueryParams struct {
	Limit  int    `form:"limit,default=20"`
	Offset uint64 `form:"offset,default=0"`
}

// ParsePaginationQuery parses limit/offset query parameters
func ParsePaginationQuery(c *gin.Context) (*PaginationQueryParams, error) {
	var params PaginationQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit < 1 {
		params.Limit = 20
	}
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	return &params, nil
}
