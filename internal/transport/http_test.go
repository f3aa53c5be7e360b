package transport_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/elapsed"
	"github.com/ganot/nossoday/internal/testserver"
	"github.com/ganot/nossoday/internal/transport"
)

var testNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

type photo struct {
	name string
	body string
}

type coupleForm struct {
	fields map[string]string
	photos []photo
}

func defaultForm() coupleForm {
	return coupleForm{
		fields: map[string]string{
			"couplename":       "Ana & Bia",
			"relationshipDate": "2020-06-15",
			"relationshipTime": "18:30",
			"message":          "Para sempre",
			"plan":             "basic",
			"youtubeVideo":     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}
}

func postCouple(t *testing.T, ts *testserver.TestServer, form coupleForm) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range form.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, p := range form.photos {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, p.name))
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL("/create-couple"), mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func createCouple(t *testing.T, ts *testserver.TestServer, form coupleForm) transport.CreateCoupleResponse {
	t.Helper()
	resp := postCouple(t, ts, form)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out transport.CreateCoupleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out transport.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Error
}

func TestHealth(t *testing.T) {
	ts := testserver.New(t, testNow)

	resp, body := get(t, ts.URL("/health"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)
}

func TestCreateCouple(t *testing.T) {
	ts := testserver.New(t, testNow)

	form := defaultForm()
	form.photos = []photo{{"praia.jpg", "first"}, {"nós/dois.jpg", "second"}}
	out := createCouple(t, ts, form)

	assert.Equal(t, "Casal criado com sucesso!", out.Message)
	require.NotNil(t, out.Couple)
	assert.Equal(t, out.CoupleID, out.Couple.ID)
	assert.NoError(t, couple.ValidateID(out.CoupleID))
	assert.Equal(t, "Ana & Bia", out.Couple.Name)
	assert.Equal(t, couple.PlanBasic, out.Couple.Plan)
	require.Len(t, out.Couple.Photos, 2)

	millis := testNow.UnixMilli()
	assert.Equal(t, fmt.Sprintf("/uploads/%d-0-praia.jpg", millis), out.Couple.Photos[0])
	assert.Equal(t, fmt.Sprintf("/uploads/%d-1-dois.jpg", millis), out.Couple.Photos[1])

	for i, want := range []string{"first", "second"} {
		resp, body := get(t, ts.URL(out.Couple.Photos[i]))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, want, body)
	}

	entries, err := ts.Activity.GetRecentActivity(context.Background(), activity.ListActivityOptions{CoupleID: out.CoupleID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.TypeCoupleCreated, entries[0].ActivityType)
}

func TestCreateCouple_Validation(t *testing.T) {
	ts := testserver.New(t, testNow)

	tests := []struct {
		name    string
		mutate  func(*coupleForm)
		message string
	}{
		{"missing name", func(f *coupleForm) { delete(f.fields, "couplename") }, "name is required"},
		{"bad date", func(f *coupleForm) { f.fields["relationshipDate"] = "15/06/2020" }, "invalid"},
		{"unknown plan", func(f *coupleForm) { f.fields["plan"] = "gold" }, "Plano inválido"},
		{"too many photos", func(f *coupleForm) {
			for i := 0; i <= couple.MaxPhotos; i++ {
				f.photos = append(f.photos, photo{fmt.Sprintf("%d.jpg", i), "x"})
			}
		}, "too many photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := defaultForm()
			tt.mutate(&form)
			resp := postCouple(t, ts, form)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, decodeError(t, resp), tt.message)
		})
	}
}

func TestCreateCouple_TooLarge(t *testing.T) {
	ts := testserver.New(t, testNow)

	form := defaultForm()
	form.photos = []photo{{"big.jpg", strings.Repeat("x", 2<<20)}}
	resp := postCouple(t, ts, form)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestCreateCouple_NotMultipart(t *testing.T) {
	ts := testserver.New(t, testNow)

	resp, err := http.Post(ts.URL("/create-couple"), "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCouplePage(t *testing.T) {
	ts := testserver.New(t, testNow)
	out := createCouple(t, ts, defaultForm())

	resp, body := get(t, ts.URL("/couple/"+out.CoupleID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Ana &amp; Bia")
	assert.Contains(t, body, "Para sempre")
	assert.Contains(t, body, "dQw4w9WgXcQ")
	assert.Contains(t, body, "/couple/"+out.CoupleID+"/elapsed/stream")
}

func TestElapsed(t *testing.T) {
	ts := testserver.New(t, testNow)
	out := createCouple(t, ts, defaultForm())

	resp, err := http.Get(ts.URL("/couple/" + out.CoupleID + "/elapsed"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var e couple.Elapsed
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, out.CoupleID, e.CoupleID)
	assert.Equal(t, elapsed.Breakdown{Years: 4, Months: 2, Days: 16, Hours: 17, Minutes: 30}, e.Breakdown)

	ts.Clock.Advance(61 * time.Second)
	resp2, err := http.Get(ts.URL("/couple/" + out.CoupleID + "/elapsed"))
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&e))
	assert.Equal(t, elapsed.Breakdown{Years: 4, Months: 2, Days: 16, Hours: 17, Minutes: 31, Seconds: 1}, e.Breakdown)
}

func TestCoupleErrors(t *testing.T) {
	ts := testserver.New(t, testNow)

	tests := []struct {
		name    string
		path    string
		status  int
		message string
	}{
		{"page invalid id", "/couple/not-a-uuid", http.StatusBadRequest, "ID inválido"},
		{"page unknown id", "/couple/0b6f1c1e-8f5e-4c55-9d0a-6f1f8a7c2b10", http.StatusNotFound, "Casal não encontrado"},
		{"elapsed invalid id", "/couple/42/elapsed", http.StatusBadRequest, "ID inválido"},
		{"elapsed unknown id", "/couple/0b6f1c1e-8f5e-4c55-9d0a-6f1f8a7c2b10/elapsed", http.StatusNotFound, "Casal não encontrado"},
		{"stream unknown id", "/couple/0b6f1c1e-8f5e-4c55-9d0a-6f1f8a7c2b10/elapsed/stream", http.StatusNotFound, "Casal não encontrado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL(tt.path))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, decodeError(t, resp))
		})
	}
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			return ev
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestElapsedStream(t *testing.T) {
	ts := testserver.New(t, testNow)
	out := createCouple(t, ts, defaultForm())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL("/couple/"+out.CoupleID+"/elapsed/stream"), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	first := readEvent(t, r)
	assert.Equal(t, "elapsed", first.name)

	var b elapsed.Breakdown
	require.NoError(t, json.Unmarshal([]byte(first.data), &b))
	assert.Equal(t, elapsed.Breakdown{Years: 4, Months: 2, Days: 16, Hours: 17, Minutes: 30}, b)

	require.Eventually(t, func() bool { return ts.Clock.Tickers() == 1 }, 2*time.Second, 5*time.Millisecond)
	ts.Clock.Advance(time.Second)

	second := readEvent(t, r)
	require.NoError(t, json.Unmarshal([]byte(second.data), &b))
	assert.Equal(t, 1, b.Seconds)

	cancel()
	require.Eventually(t, func() bool { return ts.Clock.Tickers() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func postCheckout(t *testing.T, ts *testserver.TestServer, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL("/create-checkout-session"), "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCheckoutFlow(t *testing.T) {
	ts := testserver.New(t, testNow)
	out := createCouple(t, ts, defaultForm())

	resp := postCheckout(t, ts, fmt.Sprintf(`{"plan":"pro","coupleId":%q}`, out.CoupleID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sess transport.CreateCheckoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.test/pay/cs_test_1", sess.URL)

	reqs := ts.Payments.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "price_pro_test", reqs[0].PriceID)
	assert.Equal(t, out.CoupleID, reqs[0].ClientReference)
	assert.Equal(t, testserver.PublicURL+"/cancel", reqs[0].CancelURL)
	assert.Contains(t, reqs[0].SuccessURL, testserver.PublicURL+"/success?")
	assert.Contains(t, reqs[0].SuccessURL, "session_id={CHECKOUT_SESSION_ID}")
	assert.Contains(t, reqs[0].SuccessURL, "coupleId="+out.CoupleID)

	page, body := get(t, ts.URL("/success?session_id=cs_test_1&coupleId="+out.CoupleID))
	require.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, testserver.PublicURL+"/couple/"+out.CoupleID)
	assert.Contains(t, body, "paid")

	entries, err := ts.Activity.GetRecentActivity(context.Background(), activity.ListActivityOptions{CoupleID: out.CoupleID})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, activity.TypeCheckoutCompleted, entries[0].ActivityType)
	assert.Equal(t, activity.TypeCheckoutStarted, entries[1].ActivityType)
	assert.Equal(t, activity.TypeCoupleCreated, entries[2].ActivityType)
}

func TestCheckoutErrors(t *testing.T) {
	ts := testserver.New(t, testNow)

	resp := postCheckout(t, ts, `{"plan":"gold"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Plano inválido", decodeError(t, resp))

	resp = postCheckout(t, ts, `not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postCheckout(t, ts, `{"plan":"basic","coupleId":"nope"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ID inválido", decodeError(t, resp))

	ts.Payments.Err = fmt.Errorf("stripe unavailable")
	resp = postCheckout(t, ts, `{"plan":"basic"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Erro interno do servidor", decodeError(t, resp))
}

func TestSuccessErrors(t *testing.T) {
	ts := testserver.New(t, testNow)

	resp, err := http.Get(ts.URL("/success?session_id=cs_test_1"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Get(ts.URL("/success?session_id=cs_test_1&coupleId=0b6f1c1e-8f5e-4c55-9d0a-6f1f8a7c2b10"))
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestCancel(t *testing.T) {
	ts := testserver.New(t, testNow)

	resp, body := get(t, ts.URL("/cancel"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pagamento cancelado", body)
}

func TestUploads_NoDirectoryListing(t *testing.T) {
	ts := testserver.New(t, testNow)

	resp, _ := get(t, ts.URL("/uploads/"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL("/uploads/missing.jpg"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	ts := testserver.New(t, testNow)
	createCouple(t, ts, defaultForm())

	resp, body := get(t, ts.URL("/metrics"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `nossoday_test_couples_created_total{plan="BASIC"} 1`)
	assert.Contains(t, body, "nossoday_test_http_requests_total")
}

func TestCheckoutDisabled(t *testing.T) {
	handler := transport.NewServer(transport.Options{})
	req, err := http.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(`{}`))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
