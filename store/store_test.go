package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	msm "github.com/rmera/msmgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testCollection() msm.Collection {
	return msm.Collection{
		msm.IntID(0): mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2}),
		msm.IntID(1): mat.NewDense(1, 2, []float64{9, 9}),
	}
}

func writeTestStore(Te *testing.T, name string) {
	Te.Helper()
	w, err := NewWriter(name)
	require.NoError(Te, err)
	require.NoError(Te, w.PutMapping("ttrajs", testCollection()))
	require.NoError(Te, w.PutPairs("tica-dimension-0-inds", []msm.IndexPair{{"0", 1}, {"1", 0}, {"0", 2}}))
	require.NoError(Te, w.PutArray("txx", mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})))
	w.SetMeta(Meta{"0": {"traj_fn": "trajs/00.xtc", "top_fn": "top.pdb"}, "1": {"traj_fn": "trajs/01.xtc"}})
	require.NoError(Te, w.Close())
}

func TestRoundTripCodecs(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"store.msm", "store.json", "store.gz", "store.lz4"} {
		path := filepath.Join(dir, name)
		writeTestStore(Te, path)

		S, err := Open(path)
		require.NoError(Te, err, name)
		assert.Equal(Te, []string{"tica-dimension-0-inds", "ttrajs", "txx"}, S.Keys())

		meta, c, err := S.Dataset("ttrajs")
		require.NoError(Te, err)
		assert.Equal(Te, "top.pdb", meta["0"]["top_fn"])
		assert.Len(Te, meta, 2)
		require.Len(Te, c, 2)
		for id, t := range testCollection() {
			assert.True(Te, mat.Equal(t, c[id]), "trajectory %s in %s", id, name)
		}

		v, err := S.Get("tica-dimension-0-inds")
		require.NoError(Te, err)
		assert.Equal(Te, KindPairs, v.Kind())
		pairs, err := v.Pairs()
		require.NoError(Te, err)
		assert.Equal(Te, []msm.IndexPair{{"0", 1}, {"1", 0}, {"0", 2}}, pairs)

		v, err = S.Get("txx")
		require.NoError(Te, err)
		a, err := v.Array()
		require.NoError(Te, err)
		assert.Equal(Te, 6.0, a.At(1, 2))
	}
}

func TestCompressedFilesDiffer(Te *testing.T) {
	dir := Te.TempDir()
	writeTestStore(Te, filepath.Join(dir, "a.json"))
	writeTestStore(Te, filepath.Join(dir, "a.msm"))
	plain, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(Te, err)
	zst, err := os.ReadFile(filepath.Join(dir, "a.msm"))
	require.NoError(Te, err)
	assert.Contains(Te, string(plain), `"format":"msmstore"`)
	require.True(Te, len(zst) > 4)
	assert.Equal(Te, []byte{0x28, 0xb5, 0x2f, 0xfd}, zst[:4], "zstd magic number")
}

func TestLoad(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "results.msm")
	writeTestStore(Te, path)
	v, err := Load(path, "tica-dimension-0-inds")
	require.NoError(Te, err)
	pairs, err := v.Pairs()
	require.NoError(Te, err)
	meta, c, err := LoadDataset(path, "ttrajs")
	require.NoError(Te, err)
	assert.NotNil(Te, meta)
	path2, err := msm.BuildSampledPath(c, pairs)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{9, 9}, path2.Row(1))
}

func TestZeroPaddedIDs(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "padded.msm")
	w, err := NewWriter(path)
	require.NoError(Te, err)
	c := msm.Collection{
		"03": mat.NewDense(1, 2, []float64{3, 3}),
		"3":  mat.NewDense(1, 2, []float64{4, 4}),
		"+7": mat.NewDense(1, 2, []float64{7, 7}),
	}
	require.NoError(Te, w.PutMapping("ttrajs", c))
	require.NoError(Te, w.PutPairs("inds", []msm.IndexPair{{"03", 0}, {"+7", 0}, {"3", 0}}))
	require.NoError(Te, w.Close())

	v, err := Load(path, "inds")
	require.NoError(Te, err)
	pairs, err := v.Pairs()
	require.NoError(Te, err)
	assert.Equal(Te, []msm.IndexPair{{"03", 0}, {"+7", 0}, {"3", 0}}, pairs)
	_, loaded, err := LoadDataset(path, "ttrajs")
	require.NoError(Te, err)
	sp, err := msm.BuildSampledPath(loaded, pairs)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{3, 3}, sp.Row(0))
	assert.Equal(Te, []float64{7, 7}, sp.Row(1))
	assert.Equal(Te, []float64{4, 4}, sp.Row(2))
}

func TestNotFound(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "results.msm")
	writeTestStore(Te, path)
	_, err := Load(path, "nope")
	var nf *msm.NotFoundError
	require.True(Te, errors.As(err, &nf))
	assert.Equal(Te, "nope", nf.Key)
	_, _, err = LoadDataset(path, "nope")
	assert.True(Te, errors.As(err, &nf))
}

func TestStoreUnavailable(Te *testing.T) {
	_, err := Load(filepath.Join(Te.TempDir(), "missing.msm"), "ttrajs")
	var su *msm.StoreUnavailableError
	require.True(Te, errors.As(err, &su))
	assert.True(Te, errors.Is(err, os.ErrNotExist))

	//files that can't be decompressed, whatever the codec
	dir := Te.TempDir()
	for _, name := range []string{"bad.msm", "bad.zst", "bad.gz", "bad.lz4"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, os.WriteFile(path, []byte(`{"format":"msmstore","version":1}`), 0o644))
		_, err := Open(path)
		assert.True(Te, errors.As(err, &su), name)
		var de *msm.DeserializationError
		assert.False(Te, errors.As(err, &de), name)
	}
}

func TestDeserialization(Te *testing.T) {
	dir := Te.TempDir()
	var de *msm.DeserializationError

	//not a store at all
	junk := filepath.Join(dir, "junk.json")
	require.NoError(Te, os.WriteFile(junk, []byte("this is not json"), 0o644))
	_, err := Open(junk)
	assert.True(Te, errors.As(err, &de))

	wrongformat := filepath.Join(dir, "other.json")
	require.NoError(Te, os.WriteFile(wrongformat, []byte(`{"format":"other","version":1}`), 0o644))
	_, err = Open(wrongformat)
	assert.True(Te, errors.As(err, &de))

	future := filepath.Join(dir, "future.json")
	require.NoError(Te, os.WriteFile(future, []byte(`{"format":"msmstore","version":9}`), 0o644))
	_, err = Open(future)
	assert.True(Te, errors.As(err, &de))

	//a damaged entry only fails when requested
	damaged := filepath.Join(dir, "damaged.json")
	doc := `{"format":"msmstore","version":1,"entries":{
		"good":{"kind":"pairs","value":[[0,1]]},
		"short":{"kind":"array","value":{"rows":2,"cols":2,"data":[1,2,3]}},
		"badkind":{"kind":"dataframe","value":{}},
		"badpairs":{"kind":"pairs","value":[[0,1,2]]},
		"badmap":{"kind":"mapping","value":{"0":{"rows":0,"cols":2,"data":[]}}}}}`
	require.NoError(Te, os.WriteFile(damaged, []byte(doc), 0o644))
	S, err := Open(damaged)
	require.NoError(Te, err)
	_, err = S.Get("good")
	assert.NoError(Te, err)
	for _, k := range []string{"short", "badkind", "badpairs", "badmap"} {
		_, err = S.Get(k)
		require.True(Te, errors.As(err, &de), k)
		assert.Equal(Te, k, de.Key)
	}

	//asking for the wrong kind
	v, err := S.Get("good")
	require.NoError(Te, err)
	_, err = v.Mapping()
	assert.True(Te, errors.As(err, &de))
	_, _, err = S.Dataset("good")
	assert.True(Te, errors.As(err, &de))
	_, err = v.Array()
	assert.True(Te, errors.As(err, &de))
}

func TestWriterAtomic(Te *testing.T) {
	dir := Te.TempDir()
	path := filepath.Join(dir, "results.msm")
	writeTestStore(Te, path)

	//a writer that can't write its temporary file leaves the old store alone
	w, err := NewWriter(filepath.Join(dir, "nodir", "results.msm"))
	require.NoError(Te, err)
	require.NoError(Te, w.PutPairs("x", nil))
	assert.Error(Te, w.Close())

	w, err = NewWriter(path)
	require.NoError(Te, err)
	assert.Error(Te, w.PutArray("bad", nil))
	assert.Error(Te, w.PutMapping("bad", msm.Collection{"0": nil}))
	require.NoError(Te, w.PutPairs("only", nil))
	require.NoError(Te, w.Close())
	assert.Error(Te, w.Close())
	assert.Error(Te, w.PutPairs("late", nil))

	S, err := Open(path)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"only"}, S.Keys())
	v, err := S.Get("only")
	require.NoError(Te, err)
	p, err := v.Pairs()
	require.NoError(Te, err)
	assert.Empty(Te, p)

	entries, err := os.ReadDir(dir)
	require.NoError(Te, err)
	for _, e := range entries {
		assert.NotContains(Te, e.Name(), ".tmp", "temporary file left behind")
	}
}
