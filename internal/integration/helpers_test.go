package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/selimyuksel/cinema-booking-system/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" || k == "bookingDate"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func jsonBody(t testing.TB, v any) io.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

// cinemaFixture holds the IDs of a seeded movie, hall, seats and screening.
type cinemaFixture struct {
	MovieID     int
	HallID      int
	ScreeningID int
	SeatIDs     []int
}

// seedCinema inserts a movie, a five-seat hall and an upcoming screening.
// Each call uses a distinct hall name so suites can seed independently.
func seedCinema(t testing.TB, testApp *TestApp, hallName string) cinemaFixture {
	ctx := context.Background()
	fixture := cinemaFixture{}

	err := testApp.DB.QueryRow(ctx, `
		INSERT INTO movies (title, genre, duration_minutes, rating)
		VALUES ('Interstellar', 'Sci-Fi', 169, 'PG-13')
		RETURNING id
	`).Scan(&fixture.MovieID)
	require.NoError(t, err)

	_, err = testApp.DB.Exec(ctx, `
		INSERT INTO movie_details (movie_id, director, movie_cast, synopsis, release_date)
		VALUES ($1, 'Christopher Nolan', 'Matthew McConaughey, Anne Hathaway', 'A voyage through a wormhole.', '2014-11-07')
	`, fixture.MovieID)
	require.NoError(t, err)

	err = testApp.DB.QueryRow(ctx, `
		INSERT INTO halls (name, capacity) VALUES ($1, 5) RETURNING id
	`, hallName).Scan(&fixture.HallID)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		var seatID int
		err = testApp.DB.QueryRow(ctx, `
			INSERT INTO seats (hall_id, row_letter, seat_number) VALUES ($1, 'A', $2) RETURNING id
		`, fixture.HallID, i).Scan(&seatID)
		require.NoError(t, err)
		fixture.SeatIDs = append(fixture.SeatIDs, seatID)
	}

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	err = testApp.DB.QueryRow(ctx, `
		INSERT INTO screenings (movie_id, hall_id, start_time, end_time, ticket_price)
		VALUES ($1, $2, $3, $4, 12.00)
		RETURNING id
	`, fixture.MovieID, fixture.HallID, start, start.Add(3*time.Hour)).Scan(&fixture.ScreeningID)
	require.NoError(t, err)

	return fixture
}

// createUser inserts a user with the given role directly, bypassing the
// customer-only registration endpoint.
func createUser(t testing.TB, testApp *TestApp, email string, role domain.Role) *domain.User {
	user := &domain.User{
		FirstName: TestUserFirstName,
		LastName:  TestUserLastName,
		Email:     email,
		Role:      role,
	}
	require.NoError(t, user.Password.Set(TestUserPassword))

	userRepo := repository.NewPostgresUserRepository(testApp.DB)
	require.NoError(t, userRepo.Create(context.Background(), user))

	return user
}

// login signs the user in through the API and returns the session cookie.
func login(t testing.TB, testApp *TestApp, email string) *http.Cookie {
	body := jsonBody(t, api.LoginRequest{Email: email, Password: TestUserPassword})

	req := httptest.NewRequest(http.MethodPost, "/sessions", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	testApp.App.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "login failed for %s: %s", email, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}

	t.Fatalf("no session cookie returned for %s", email)
	return nil
}

// doRequest performs an authenticated JSON request against the app's router
// and returns the recorder.
func doRequest(t testing.TB, testApp *TestApp, method, url string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = jsonBody(t, body)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	testApp.App.Routes().ServeHTTP(rec, req)

	return rec
}

func decodeResponse[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "failed to decode %s", rec.Body.String())
	return v
}

func decodeBody(t testing.TB, body io.Reader, v any) {
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func decimalFromString(t testing.TB, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
