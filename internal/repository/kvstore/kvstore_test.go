package kvstore

import (
	"errors"
	"sync"
	"testing"

	"github.com/pointspay/ledger-backend/internal/models"
	"github.com/pointspay/ledger-backend/internal/repository"
	"github.com/pointspay/ledger-backend/internal/store"
)

func TestCounterMonotonic(t *testing.T) {
	kv := store.NewMemory()
	c := NewCounter(kv, store.RegionCounter)

	var prev uint64
	for i := 0; i < 10; i++ {
		id, err := c.Next()
		if err != nil {
			t.Fatal(err)
		}
		if id <= prev {
			t.Fatalf("id %d not above previous %d", id, prev)
		}
		prev = id
	}
}

func TestCounterResumesFromStore(t *testing.T) {
	kv := store.NewMemory()
	c := NewCounter(kv, store.RegionCounter)
	for i := 0; i < 5; i++ {
		if _, err := c.Next(); err != nil {
			t.Fatal(err)
		}
	}

	// A fresh counter over the same store stands in for a restart.
	c2 := NewCounter(kv, store.RegionCounter)
	id, err := c2.Next()
	if err != nil {
		t.Fatal(err)
	}
	if id != 6 {
		t.Fatalf("resumed id=%d want=6", id)
	}
}

func TestCounterConcurrentNext(t *testing.T) {
	kv := store.NewMemory()
	c := NewCounter(kv, store.RegionCounter)

	const n = 200
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := c.Next()
			if err != nil {
				t.Error(err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("issued %d distinct ids, want %d", len(seen), n)
	}
}

func TestCountersPerRegionIndependent(t *testing.T) {
	kv := store.NewMemory()
	main := NewCounter(kv, store.RegionCounter)
	audit := NewCounter(kv, store.RegionAuditCounter)

	if _, err := main.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := main.Next(); err != nil {
		t.Fatal(err)
	}
	id, err := audit.Next()
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("audit counter should start fresh, got %d", id)
	}
}

func newRepos(t *testing.T) (*Repositories, store.KV) {
	t.Helper()
	kv := store.NewMemory()
	return NewRepositories(kv), kv
}

func TestUsersCreateAndGet(t *testing.T) {
	repos, _ := newRepos(t)
	u, err := repos.Users.Create(models.User{
		Username: "adasmith", FirstName: "Ada", LastName: "Smith", Email: "ada@x.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("id/timestamp not assigned: %+v", u)
	}
	if u.Balance != 0 || u.Points != 0 {
		t.Fatalf("new user must start at zero: %+v", u)
	}

	got, err := repos.Users.Get(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "ada@x.com" {
		t.Fatalf("got=%+v", got)
	}
	if _, err := repos.Users.Get(999); !errors.Is(err, repository.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
}

func TestUsersReturnsCopies(t *testing.T) {
	repos, _ := newRepos(t)
	u, _ := repos.Users.Create(models.User{Username: "a", Email: "a@x.com"})

	u.Balance = 9999 // mutating the returned copy must not reach the store
	got, err := repos.Users.Get(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance != 0 {
		t.Fatalf("store record mutated through returned copy: %+v", got)
	}
}

func TestUsersEmailTaken(t *testing.T) {
	repos, _ := newRepos(t)
	if _, err := repos.Users.Create(models.User{Username: "a", Email: "a@x.com"}); err != nil {
		t.Fatal(err)
	}
	taken, err := repos.Users.EmailTaken("a@x.com")
	if err != nil || !taken {
		t.Fatalf("taken=%v err=%v", taken, err)
	}
	taken, err = repos.Users.EmailTaken("b@x.com")
	if err != nil || taken {
		t.Fatalf("taken=%v err=%v", taken, err)
	}
}

func TestUsersCreditDebit(t *testing.T) {
	repos, _ := newRepos(t)
	u, _ := repos.Users.Create(models.User{Username: "a", Email: "a@x.com"})

	if _, err := repos.Users.Credit(u.ID, 100); err != nil {
		t.Fatal(err)
	}
	after, err := repos.Users.Debit(u.ID, 30)
	if err != nil {
		t.Fatal(err)
	}
	if after.Balance != 70 {
		t.Fatalf("balance=%d want=70", after.Balance)
	}

	// Debit must check sufficiency before mutating.
	if _, err := repos.Users.Debit(u.ID, 71); !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	got, _ := repos.Users.Get(u.ID)
	if got.Balance != 70 {
		t.Fatalf("failed debit changed balance: %d", got.Balance)
	}
}

func TestUsersRedeemPoints(t *testing.T) {
	repos, _ := newRepos(t)
	u, _ := repos.Users.Create(models.User{Username: "a", Email: "a@x.com"})
	if _, err := repos.Users.AddPoints(u.ID, 5); err != nil {
		t.Fatal(err)
	}

	if _, err := repos.Users.RedeemPoints(u.ID, 6); !errors.Is(err, repository.ErrInsufficientPoints) {
		t.Fatalf("want ErrInsufficientPoints, got %v", err)
	}
	got, _ := repos.Users.Get(u.ID)
	if got.Points != 5 {
		t.Fatalf("failed redeem changed points: %d", got.Points)
	}

	after, err := repos.Users.RedeemPoints(u.ID, 5)
	if err != nil {
		t.Fatal(err)
	}
	if after.Points != 0 {
		t.Fatalf("points=%d want=0", after.Points)
	}
}

func TestTransactionsAppendAndList(t *testing.T) {
	repos, _ := newRepos(t)
	a, _ := repos.Users.Create(models.User{Username: "a", Email: "a@x.com"})
	b, _ := repos.Users.Create(models.User{Username: "b", Email: "b@x.com"})
	c, _ := repos.Users.Create(models.User{Username: "c", Email: "c@x.com"})

	t1, err := repos.Transactions.Append(a.ID, b.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	t2, _ := repos.Transactions.Append(b.ID, c.ID, 20)
	t3, _ := repos.Transactions.Append(c.ID, a.ID, 30)

	// Ids come from the sequence shared with users.
	if t1.ID <= c.ID {
		t.Fatalf("transaction id %d should follow user ids", t1.ID)
	}
	if !(t1.ID < t2.ID && t2.ID < t3.ID) {
		t.Fatalf("ids must ascend: %d %d %d", t1.ID, t2.ID, t3.ID)
	}

	txs, err := repos.Transactions.ListByUser(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 || txs[0].ID != t1.ID || txs[1].ID != t3.ID {
		t.Fatalf("history for a: %+v", txs)
	}

	// Uninvolved user has an empty history.
	d, _ := repos.Users.Create(models.User{Username: "d", Email: "d@x.com"})
	txs, err = repos.Transactions.ListByUser(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty history, got %+v", txs)
	}
}

func TestTransactionsGet(t *testing.T) {
	repos, _ := newRepos(t)
	tx, err := repos.Transactions.Append(1, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	got, err := repos.Transactions.Get(tx.ID)
	if err != nil || got.Amount != 5 {
		t.Fatalf("got=%+v err=%v", got, err)
	}
	if _, err := repos.Transactions.Get(tx.ID + 100); !errors.Is(err, repository.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
}

func TestAuditLogsOwnSequence(t *testing.T) {
	repos, kv := newRepos(t)
	if err := repos.AuditLogs.Create(models.AuditLog{EntityType: "user", EntityID: 1, Action: "created"}); err != nil {
		t.Fatal(err)
	}
	if err := repos.AuditLogs.Create(models.AuditLog{EntityType: "user", EntityID: 1, Action: "deposit"}); err != nil {
		t.Fatal(err)
	}

	n := 0
	err := kv.Iterate(store.RegionAudit, func(k uint64, _ []byte) (bool, error) {
		n++
		if k != uint64(n) {
			t.Fatalf("audit ids should start at 1: got key %d", k)
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("audit entries=%d want=2", n)
	}
}

// Audit writes come in from worker goroutines, so concurrent creates must
// neither collide on ids nor overwrite each other.
func TestAuditLogsConcurrentCreate(t *testing.T) {
	repos, kv := newRepos(t)

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repos.AuditLogs.Create(models.AuditLog{
				EntityType: "user", EntityID: uint64(i), Action: "deposit",
			})
			if err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	survived := 0
	err := kv.Iterate(store.RegionAudit, func(_ uint64, _ []byte) (bool, error) {
		survived++
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if survived != n {
		t.Fatalf("wrote %d audit records, only %d survived", n, survived)
	}
}
