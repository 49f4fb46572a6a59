package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/zenrpc/v2"
)

func TestArticleService_InvalidParams(t *testing.T) {
	s := ArticleService{}
	ctx := context.Background()

	tests := []struct {
		name     string
		method   string
		params   string
		wantCode int
	}{
		{"LatestZero", RPC.ArticleService.Latest, `{"count":0}`, 400},
		{"LatestTooMany", RPC.ArticleService.Latest, `{"count":51}`, 400},
		{"LatestPositional", RPC.ArticleService.Latest, `[-1]`, 400},
		{"LatestWrongType", RPC.ArticleService.Latest, `{"count":"six"}`, zenrpc.InvalidParams},
		{"BySlugMissing", RPC.ArticleService.BySlug, `{}`, 400},
		{"BySlugBlank", RPC.ArticleService.BySlug, `["   "]`, 400},
		{"UnknownMethod", "archive", `{}`, zenrpc.MethodNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Invoke(ctx, tt.method, json.RawMessage(tt.params))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestArticleService_SMD(t *testing.T) {
	info := ArticleService{}.SMD()

	for _, method := range []string{"Latest", "BySlug", "Categories", "Tags"} {
		assert.Contains(t, info.Methods, method)
	}

	latest := info.Methods["Latest"]
	require.Len(t, latest.Parameters, 1)
	assert.True(t, latest.Parameters[0].Optional)
	assert.Contains(t, info.Methods["BySlug"].Errors, 404)
}

func TestConvert(t *testing.T) {
	assert.Nil(t, NewAuthor(nil))
	assert.Empty(t, NewArticleSummaries(nil))
	assert.Empty(t, NewTags(nil))
}
