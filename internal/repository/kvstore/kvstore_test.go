package kvstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
	"github.com/senani-kuruwita/attendance-backend/internal/repository/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := kvstore.NewMemory()

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	value := []byte("hello")
	require.NoError(t, m.Put(ctx, "k", value))
	value[0] = 'j'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, m.Put(cancelled, "k", nil), context.Canceled)
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("not found when never saved", func(t *testing.T) {
		repo := kvstore.NewEmployeeRepository(kvstore.NewMemory())
		_, err := repo.Load(ctx)
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("round trip keeps order", func(t *testing.T) {
		repo := kvstore.NewEmployeeRepository(kvstore.NewMemory())
		roster := []employee.Employee{
			{ID: "1", Name: "Owner", Username: "admin", PasswordHash: "h", Role: employee.RoleAdmin},
			{ID: "2", Name: "Shashi", Username: "shashi", PasswordHash: "h", Role: employee.RoleEmployee, DailyPay: 1200},
		}
		require.NoError(t, repo.Save(ctx, roster))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, roster, got)
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"not an array", `{"id":"1"}`},
		{"bad role", `[{"id":"1","name":"A","username":"aaa","password_hash":"h","role":"BOSS","daily_pay":0}]`},
		{"negative pay", `[{"id":"1","name":"A","username":"aaa","password_hash":"h","role":"EMPLOYEE","daily_pay":-5}]`},
		{"missing credential", `[{"id":"1","name":"A","username":"aaa","role":"EMPLOYEE","daily_pay":0}]`},
		{"duplicate username", `[
			{"id":"1","name":"A","username":"aaa","password_hash":"h","role":"EMPLOYEE","daily_pay":0},
			{"id":"2","name":"B","username":"aaa","password_hash":"h","role":"EMPLOYEE","daily_pay":0}]`},
	}
	for _, tt := range tests {
		t.Run("corrupt: "+tt.name, func(t *testing.T) {
			store := kvstore.NewMemory()
			require.NoError(t, store.Put(ctx, kvstore.KeyEmployees, []byte(tt.raw)))

			_, err := kvstore.NewEmployeeRepository(store).Load(ctx)
			assert.ErrorIs(t, err, kvstore.ErrCorruptSnapshot)
		})
	}
}

func TestAttendanceRepository(t *testing.T) {
	ctx := context.Background()
	in := time.Date(2024, 1, 15, 8, 10, 0, 0, time.UTC)
	out := time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		repo := kvstore.NewAttendanceRepository(kvstore.NewMemory())
		records := []attendance.Attendance{
			{
				ID: "r1", UserID: "u1", UserName: "Shashi", Date: "2024-01-15",
				CheckIn: in, CheckOut: &out, OTMinutes: 60, OTPay: 75,
				Location: &geo.Point{Latitude: 6.9271, Longitude: 79.8612}, Method: attendance.MethodGPS,
			},
			{ID: "r2", UserID: "u2", UserName: "Avishka", Date: "2024-01-15", CheckIn: in},
		}
		require.NoError(t, repo.Save(ctx, records))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "r1", got[0].ID)
		assert.True(t, got[0].CheckOut.Equal(out))
		assert.Equal(t, int64(75), got[0].OTPay)
		assert.Nil(t, got[1].CheckOut)
	})

	t.Run("empty ledger saves as empty array", func(t *testing.T) {
		store := kvstore.NewMemory()
		require.NoError(t, kvstore.NewAttendanceRepository(store).Save(ctx, nil))

		raw, err := store.Get(ctx, kvstore.KeyAttendance)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `nope`},
		{"bad date", `[{"id":"r","user_id":"u","date":"15/01/2024","check_in":"2024-01-15T08:00:00Z"}]`},
		{"bad timestamp", `[{"id":"r","user_id":"u","date":"2024-01-15","check_in":"08:00"}]`},
		{"check-out before check-in", `[{"id":"r","user_id":"u","date":"2024-01-15","check_in":"2024-01-15T08:00:00Z","check_out":"2024-01-15T07:00:00Z"}]`},
		{"negative pay", `[{"id":"r","user_id":"u","date":"2024-01-15","check_in":"2024-01-15T08:00:00Z","check_out":"2024-01-15T19:00:00Z","ot_pay":-1}]`},
		{"two records one day", `[
			{"id":"a","user_id":"u","date":"2024-01-15","check_in":"2024-01-15T08:00:00Z"},
			{"id":"b","user_id":"u","date":"2024-01-15","check_in":"2024-01-15T09:00:00Z"}]`},
	}
	for _, tt := range tests {
		t.Run("corrupt: "+tt.name, func(t *testing.T) {
			store := kvstore.NewMemory()
			require.NoError(t, store.Put(ctx, kvstore.KeyAttendance, []byte(tt.raw)))

			_, err := kvstore.NewAttendanceRepository(store).Load(ctx)
			assert.ErrorIs(t, err, kvstore.ErrCorruptSnapshot)
		})
	}
}
