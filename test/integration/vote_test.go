package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpool/clubpool/internal/core/domain"
)

func TestWeightedVotingTallies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	owner := createUser(t, app.DB)
	clubID := createClub(t, app.DB, owner, domain.VotingWeighted, 50)
	memberA := createUser(t, app.DB)
	memberB := createUser(t, app.DB)
	memberC := createUser(t, app.DB)
	addMember(t, app.DB, clubID, memberA, domain.RoleMember, 100)
	addMember(t, app.DB, clubID, memberB, domain.RoleMember, 200)
	addMember(t, app.DB, clubID, memberC, domain.RoleMember, 300)

	proposal := createProposalHTTP(t, app, clubID, tokenFor(t, memberA))
	assert.Equal(t, 600.0, proposal.WeightSnapshotTotal)

	votePath := fmt.Sprintf("/api/clubs/%s/proposals/%s/votes", clubID, proposal.ID)

	resp := doJSON(t, app, "POST", votePath, tokenFor(t, memberA), map[string]any{"choice": "yes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var vote domain.Vote
	decodeInto(t, resp, &vote)
	assert.Equal(t, 100.0, vote.Weight)

	resp = doJSON(t, app, "POST", votePath, tokenFor(t, memberB), map[string]any{"choice": "yes", "comment": "agreed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", votePath, tokenFor(t, memberC), map[string]any{"choice": "no"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var votesCount int64
	var yesWeight, noWeight float64
	err := app.DB.QueryRow("SELECT votes_count, yes_weight, no_weight FROM proposals WHERE id = $1", proposal.ID).
		Scan(&votesCount, &yesWeight, &noWeight)
	require.NoError(t, err)
	assert.Equal(t, int64(3), votesCount)
	assert.Equal(t, 300.0, yesWeight)
	assert.Equal(t, 300.0, noWeight)

	// tally equals the ledger sum
	var ledgerSum float64
	err = app.DB.QueryRow("SELECT COALESCE(SUM(weight), 0) FROM votes WHERE proposal_id = $1", proposal.ID).Scan(&ledgerSum)
	require.NoError(t, err)
	assert.Equal(t, yesWeight+noWeight, ledgerSum)
}

func TestDuplicateVoteRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	owner := createUser(t, app.DB)
	clubID := createClub(t, app.DB, owner, domain.VotingSimple, 50)
	member := createUser(t, app.DB)
	addMember(t, app.DB, clubID, member, domain.RoleMember, 0)

	proposal := createProposalHTTP(t, app, clubID, tokenFor(t, member))
	votePath := fmt.Sprintf("/api/clubs/%s/proposals/%s/votes", clubID, proposal.ID)
	token := tokenFor(t, member)

	resp := doJSON(t, app, "POST", votePath, token, map[string]any{"choice": "yes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", votePath, token, map[string]any{"choice": "no"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var votesCount int64
	err := app.DB.QueryRow("SELECT votes_count FROM proposals WHERE id = $1", proposal.ID).Scan(&votesCount)
	require.NoError(t, err)
	assert.Equal(t, int64(1), votesCount)
}

func TestConcurrentDuplicateVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	owner := createUser(t, app.DB)
	clubID := createClub(t, app.DB, owner, domain.VotingWeighted, 50)
	member := createUser(t, app.DB)
	addMember(t, app.DB, clubID, member, domain.RoleMember, 100)

	proposal := createProposalHTTP(t, app, clubID, tokenFor(t, member))
	votePath := fmt.Sprintf("/api/clubs/%s/proposals/%s/votes", clubID, proposal.ID)
	token := tokenFor(t, member)

	const attempts = 8
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := doJSON(t, app, "POST", votePath, token, map[string]any{"choice": "yes"})
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, code := range statuses {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	// exactly one winner; the index decides the race
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	var votesCount int64
	var yesWeight float64
	err := app.DB.QueryRow("SELECT votes_count, yes_weight FROM proposals WHERE id = $1", proposal.ID).Scan(&votesCount, &yesWeight)
	require.NoError(t, err)
	assert.Equal(t, int64(1), votesCount)
	assert.Equal(t, 100.0, yesWeight)
}

func TestVoteDeadlineGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	owner := createUser(t, app.DB)
	clubID := createClub(t, app.DB, owner, domain.VotingSimple, 50)
	member := createUser(t, app.DB)
	addMember(t, app.DB, clubID, member, domain.RoleMember, 0)

	proposal := createProposalHTTP(t, app, clubID, tokenFor(t, member))

	// expire the proposal without closing it
	_, err := app.DB.Exec("UPDATE proposals SET deadline = NOW() - INTERVAL '1 hour' WHERE id = $1", proposal.ID)
	require.NoError(t, err)

	votePath := fmt.Sprintf("/api/clubs/%s/proposals/%s/votes", clubID, proposal.ID)
	resp := doJSON(t, app, "POST", votePath, tokenFor(t, member), map[string]any{"choice": "yes"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestVoteByNonMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	owner := createUser(t, app.DB)
	clubID := createClub(t, app.DB, owner, domain.VotingSimple, 50)
	proposal := createProposalHTTP(t, app, clubID, tokenFor(t, owner))

	outsider := createUser(t, app.DB)
	votePath := fmt.Sprintf("/api/clubs/%s/proposals/%s/votes", clubID, proposal.ID)
	resp := doJSON(t, app, "POST", votePath, tokenFor(t, outsider), map[string]any{"choice": "yes"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestMyVoteInProposalDetail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	owner := createUser(t, app.DB)
	clubID := createClub(t, app.DB, owner, domain.VotingWeighted, 50)
	member := createUser(t, app.DB)
	addMember(t, app.DB, clubID, member, domain.RoleMember, 150)

	proposal := createProposalHTTP(t, app, clubID, tokenFor(t, member))
	votePath := fmt.Sprintf("/api/clubs/%s/proposals/%s/votes", clubID, proposal.ID)
	detailPath := fmt.Sprintf("/api/clubs/%s/proposals/%s", clubID, proposal.ID)

	resp := doJSON(t, app, "POST", votePath, tokenFor(t, member), map[string]any{"choice": "yes", "comment": "LGTM"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", detailPath, tokenFor(t, member), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail domain.ProposalDetail
	decodeInto(t, resp, &detail)
	require.NotNil(t, detail.MyVote)
	assert.Equal(t, member, detail.MyVote.UserID)
	assert.Equal(t, 150.0, detail.MyVote.Weight)
	assert.Equal(t, "LGTM", detail.MyVote.Comment)

	// another member sees the vote but has no my_vote
	resp = doJSON(t, app, "GET", detailPath, tokenFor(t, owner), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ownerView domain.ProposalDetail
	decodeInto(t, resp, &ownerView)
	require.Len(t, ownerView.Votes, 1)
	assert.Nil(t, ownerView.MyVote)
}

func TestTallyReconciliationRepairsDrift(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	owner := createUser(t, app.DB)
	clubID := createClub(t, app.DB, owner, domain.VotingWeighted, 50)
	member := createUser(t, app.DB)
	addMember(t, app.DB, clubID, member, domain.RoleMember, 250)

	proposal := createProposalHTTP(t, app, clubID, tokenFor(t, member))
	votePath := fmt.Sprintf("/api/clubs/%s/proposals/%s/votes", clubID, proposal.ID)
	resp := doJSON(t, app, "POST", votePath, tokenFor(t, member), map[string]any{"choice": "yes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// corrupt the aggregates, then reconcile
	_, err := app.DB.Exec("UPDATE proposals SET votes_count = 42, yes_weight = 9000 WHERE id = $1", proposal.ID)
	require.NoError(t, err)

	require.NoError(t, app.ReconcileSvc.ReconcileAllTallies(context.Background()))

	var votesCount int64
	var yesWeight float64
	err = app.DB.QueryRow("SELECT votes_count, yes_weight FROM proposals WHERE id = $1", proposal.ID).Scan(&votesCount, &yesWeight)
	require.NoError(t, err)
	assert.Equal(t, int64(1), votesCount)
	assert.Equal(t, 250.0, yesWeight)
}
