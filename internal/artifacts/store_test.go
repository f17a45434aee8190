package artifacts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/obs"
)

func TestStore_PutGet(t *testing.T) {
	store := TestStore(t, "artifacts-test")
	ctx := context.Background()

	key := store.Key("run-1", "flat.html")
	assert.Equal(t, "calnav/run-1/flat.html", key)

	require.NoError(t, store.Put(ctx, key, []byte("<html></html>"), ContentTypeHTML))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(got))
}

func TestStore_GetMissing(t *testing.T) {
	store := TestStore(t, "artifacts-test")

	_, err := store.Get(context.Background(), "calnav/nope/missing.png")
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))
}

func TestStore_KeyStripsDirectories(t *testing.T) {
	store := NewFromS3Client(nil, "b", "/calnav/")
	assert.Equal(t, "calnav/run-2/x.png", store.Key("run-2", "../../x.png"))
	assert.True(t, strings.HasPrefix(store.Key("", "x.png"), "calnav/run-"))
}

func TestStore_SaveFailure(t *testing.T) {
	store := TestStore(t, "artifacts-test")
	ctx := obs.WithCorrelation(context.Background(), obs.Correlation{RunID: "run-abc"})

	keys, err := store.SaveFailure(ctx, "slot", Capture{
		Screenshot: []byte{0x89, 'P', 'N', 'G'},
		HTML:       "<table></table>",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"calnav/run-abc/slot.png", "calnav/run-abc/slot.html"}, keys)

	listed, err := store.List(ctx, "run-abc")
	require.NoError(t, err)
	assert.ElementsMatch(t, keys, listed)
}

func TestStore_SaveFailureSkipsEmptyParts(t *testing.T) {
	store := TestStore(t, "artifacts-test")

	keys, err := store.SaveFailure(context.Background(), "flat", Capture{HTML: "<div></div>"})
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], "/flat.html"))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Region: "us-east-1"})
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
}

func TestStore_RoundTrip(t *testing.T) {
	store := TestStore(t, "artifacts-prop")
	rapid.Check(t, func(t *rapid.T) {
		run := rapid.StringMatching(`run-[a-z0-9]{4,12}`).Draw(t, "run")
		name := rapid.StringMatching(`[a-z]{1,10}\.(png|html)`).Draw(t, "name")
		body := rapid.SliceOfN(rapid.Byte(), 1, 256).Draw(t, "body")

		key := store.Key(run, name)
		if err := store.Put(context.Background(), key, body, ContentTypePNG); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := store.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != string(body) {
			t.Fatalf("body mismatch for %s", key)
		}
	})
}
