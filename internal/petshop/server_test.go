package petshop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, `:memory:`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Seed(ctx, db))
	return NewServer(db)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func listPets(t *testing.T, s *Server, target string) []PetRecord {
	t.Helper()

	w := get(t, s, target)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out []PetRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func countPets(t *testing.T, s *Server, target string) int64 {
	t.Helper()

	w := get(t, s, target)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func nicknames(records []PetRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Nickname
	}
	return out
}

func TestServerListPets(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{`all by price desc`, `order=-price`, []string{`Polly`, `Bo`, `Rex`, `Tom`, `Nemo`}},
		{`category`, `category.eq=mammal&order=nickname`, []string{`Bo`, `Rex`, `Tom`}},
		{`type and category`, `type.eq=dog&category.eq=mammal&active.eq=true`, []string{`Bo`}},
		{`feature`, `features.eq=loud&order=id`, []string{`Bo`, `Rex`, `Polly`}},
		{`features in`, `features.in=fluffy,loud&order=id`, []string{`Bo`, `Rex`, `Tom`, `Polly`}},
		{`price between`, `price.btw=60,120&order=price`, []string{`Tom`, `Rex`, `Bo`}},
		{`birthdate after`, `birthdate.gt=2019-01-01&order=birthdate`, []string{`Bo`, `Tom`, `Nemo`}},
		{`nickname like`, `nickname.like=o&order=nickname`, []string{`Bo`, `Nemo`, `Polly`, `Tom`}},
		{`like is case sensitive`, `nickname.like=B`, []string{`Bo`}},
		{`page`, `order=id&size=2&offset=1`, []string{`Rex`, `Tom`}},
		{`offset without size`, `order=id&offset=3`, []string{`Bo`, `Rex`, `Tom`, `Polly`, `Nemo`}},
		{`no match`, `type.eq=hamster`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nicknames(listPets(t, s, `/pets?`+tt.query)))
		})
	}
}

func TestServerCountPets(t *testing.T) {
	s := newTestServer(t)

	queries := []string{
		``,
		`category.eq=mammal`,
		`features.in=fluffy,loud`,
		`features.eq=loud&type.neq=parrot`,
		`price.gte=60&birthdate.lt=2020-01-01`,
		`type.eq=hamster`,
		`active.eq=false&category.in=mammal,bird`,
	}

	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			list := listPets(t, s, `/pets?`+query)
			paged := countPets(t, s, `/pets/count?size=1&offset=1&`+query)
			assert.Equal(t, int64(len(list)), paged)
		})
	}
}

func TestServerRecord(t *testing.T) {
	s := newTestServer(t)

	records := listPets(t, s, `/pets?nickname.eq=Bo`)
	require.Len(t, records, 1)
	assert.Equal(t, PetRecord{
		ID:        1,
		Nickname:  `Bo`,
		Birthdate: `2019-03-14`,
		Price:     120,
		Active:    true,
		Type:      `dog`,
		Category:  `mammal`,
		Features:  []string{`fluffy`, `loud`},
	}, records[0])

	records = listPets(t, s, `/pets?nickname.eq=Nemo`)
	require.Len(t, records, 1)
	assert.Equal(t, `fish`, records[0].Category)
	assert.Equal(t, []string{}, records[0].Features)
}

func TestServerBadRequest(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		msg    string
	}{
		{`between bounds`, `/pets?price.btw=10`, `between requires exactly two bounds`},
		{`between bounds on count`, `/pets/count?price.btw=1,2,3`, `between requires exactly two bounds`},
		{`unknown order`, `/pets?order=weight`, `unknown ordering field`},
		{`negative size`, `/pets?size=-1`, `page size must be non-negative`},
		{`unknown parameter`, `/pets?weight.eq=1`, `bad request`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, tt.target)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body.Error, tt.msg)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestServerBackendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`select`).WillReturnError(errors.New(`disk I/O error`))

	w := get(t, NewServer(db), `/pets`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), `disk I/O error`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServerRequestID(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, `/pets/count`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, `/pets/count`, nil)
	req.Header.Set(RequestIDHeader, `abc`)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, `abc`, w.Header().Get(RequestIDHeader))
}

func TestServerMetrics(t *testing.T) {
	s := newTestServer(t)

	get(t, s, `/pets?type.eq=dog`)
	get(t, s, `/pets?price.btw=1`)

	w := get(t, s, `/metrics`)
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	text := string(body)

	assert.True(t, strings.Contains(text, `petshop_http_requests_total{code="200",route="/pets"} 1`), text)
	assert.True(t, strings.Contains(text, `petshop_http_requests_total{code="400",route="/pets"} 1`), text)
	assert.Contains(t, text, `petshop_search_results_count 1`)
}
