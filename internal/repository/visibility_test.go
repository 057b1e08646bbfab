package repository

import (
	"strings"
	"testing"
)

func TestBuildPublicListing(t *testing.T) {
	query, args := buildPublicListing(10, 20)

	for _, want := range []string{
		"WHERE f.is_public",
		"o.roles_pk = 'owner'",
		"ORDER BY f.created, f.id",
		"LIMIT $1 OFFSET $2",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("запрос не содержит %q:\n%s", want, query)
		}
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 20 {
		t.Errorf("args = %v, ожидается [10 20]", args)
	}
}

func TestBuildPrivateListing(t *testing.T) {
	query, args := buildPrivateListing("viewer-1", 5, 0)

	for _, want := range []string{
		"WHERE NOT f.is_public",
		"v.user_account_pk = $1",
		"v.roles_pk = ANY($2)",
		"LIMIT $3 OFFSET $4",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("запрос не содержит %q:\n%s", want, query)
		}
	}

	if len(args) != 4 {
		t.Fatalf("len(args) = %d, ожидается 4", len(args))
	}
	if args[0] != "viewer-1" {
		t.Errorf("args[0] = %v, ожидается viewer-1", args[0])
	}
	roles, ok := args[1].([]string)
	if !ok || len(roles) != 2 || roles[0] != "owner" || roles[1] != "download" {
		t.Errorf("args[1] = %v, ожидается [owner download]", args[1])
	}
}

func TestBuildByUserOrOrphan(t *testing.T) {
	query, args := buildByUserOrOrphan("user-1", 10, 10)

	for _, want := range []string{
		"UNION",
		"HAVING COUNT(*) = 1",
		"p.user_account_pk = $1",
		"LEFT JOIN files_per_user v ON v.files_pk = a.id AND v.user_account_pk = $1",
		"COALESCE(v.roles_pk = ANY($2), false)",
		"LIMIT $3 OFFSET $4",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("запрос не содержит %q:\n%s", want, query)
		}
	}
	if len(args) != 4 || args[2] != 10 || args[3] != 10 {
		t.Errorf("args = %v", args)
	}
	// Роль совпавшей строки не должна определять скачивание
	if strings.Contains(query, "a.roles_pk = ANY") {
		t.Errorf("скачивание вычисляется по чужой строке прав:\n%s", query)
	}
}

func TestVisibilityQueries_NoPerRowSubqueries(t *testing.T) {
	// Владелец разрешается JOIN'ом, а не подзапросом на каждую строку
	for name, query := range map[string]string{
		"public":  func() string { q, _ := buildPublicListing(1, 0); return q }(),
		"private": func() string { q, _ := buildPrivateListing("v", 1, 0); return q }(),
	} {
		if strings.Contains(query, "(SELECT user_name") {
			t.Errorf("%s: владелец не должен выбираться подзапросом", name)
		}
	}
}
