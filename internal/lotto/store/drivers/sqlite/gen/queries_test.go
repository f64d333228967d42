package gen

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	queryHeader = regexp.MustCompile(`(?m)^-- name: (\w+) :\w+$`)
	// sqlc expands SELECT * into the table's column list.
	selectColumns = regexp.MustCompile(`SELECT [a-z_]+(, [a-z_]+)* FROM`)
)

func TestQueriesMatchSource(t *testing.T) {
	consts := map[string]string{
		"CreateDraw":            createDraw,
		"GetDrawByID":           getDrawByID,
		"ListDrawsByUser":       listDrawsByUser,
		"DeletePlayedDraws":     deletePlayedDraws,
		"MarkDrawPlayed":        markDrawPlayed,
		"CreateSession":         createSession,
		"GetSessionByTokenHash": getSessionByTokenHash,
		"ClaimSessionAttempt":   claimSessionAttempt,
		"BindSession":           bindSession,
		"RevokeSession":         revokeSession,
		"DeleteExpiredSessions": deleteExpiredSessions,
		"GetUserByID":           getUserByID,
		"GetUserByEmail":        getUserByEmail,
		"CreateUser":            createUser,
		"RecordUserLogin":       recordUserLogin,
		"CountUsersByRole":      countUsersByRole,
	}

	files, err := filepath.Glob(filepath.Join("..", "queries", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	seen := map[string]bool{}
	for _, f := range files {
		raw, err := os.ReadFile(f)
		require.NoError(t, err)
		src := string(raw)

		headers := queryHeader.FindAllStringSubmatchIndex(src, -1)
		for i, h := range headers {
			end := len(src)
			if i+1 < len(headers) {
				end = headers[i+1][0]
			}
			name := src[h[2]:h[3]]
			want := strings.TrimSuffix(strings.TrimSpace(src[h[0]:end]), ";") + "\n"

			got, ok := consts[name]
			require.True(t, ok, "%s: no query constant for %s", f, name)
			require.Equal(t, want, selectColumns.ReplaceAllString(got, "SELECT * FROM"), name)
			seen[name] = true
		}
	}
	require.Len(t, seen, len(consts))
}
