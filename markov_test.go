package msm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//signAssigner puts frames with negative first coordinate in state 0, the rest in 1.
type signAssigner struct{}

func (signAssigner) Predict(X *mat.Dense) ([]int, error) {
	r, _ := X.Dims()
	ret := make([]int, r)
	for i := 0; i < r; i++ {
		if X.At(i, 0) >= 0 {
			ret[i] = 1
		}
	}
	return ret, nil
}

func twoWellData() []*mat.Dense {
	//states: 0 0 1 1 1 0
	return []*mat.Dense{mat.NewDense(6, 2, []float64{
		-1, 0,
		-3, 2,
		1, 1,
		2, 0,
		3, -1,
		-2, 1,
	})}
}

func TestMarkovStateModel(Te *testing.T) {
	var _ Model = (*MarkovStateModel)(nil)
	m, err := NewMarkovStateModel(signAssigner{}, 2, 1, 7)
	require.NoError(Te, err)
	_, err = m.Score(twoWellData())
	assert.Error(Te, err, "scoring before fitting should fail")

	require.NoError(Te, m.Fit(twoWellData()))
	assert.True(Te, mat.Equal(mat.NewDense(2, 2, []float64{1, 1, 1, 2}), m.Counts()))
	assert.True(Te, mat.EqualApprox(mat.NewDense(2, 2, []float64{0.5, 0.5, 1.0 / 3, 2.0 / 3}), m.TransitionMatrix(), 1e-12))

	centers, empty := m.Centers()
	assert.Equal(Te, []bool{false, false}, empty)
	assert.True(Te, mat.EqualApprox(mat.NewDense(2, 2, []float64{-2, 1, 2, 0}), centers, 1e-12))

	ll, err := m.Score(twoWellData())
	require.NoError(Te, err)
	want := 2*math.Log(0.5) + math.Log(1.0/3) + 2*math.Log(2.0/3)
	assert.InDelta(Te, want, ll, 1e-12)
}

func TestMarkovStateModelSample(Te *testing.T) {
	m, err := NewMarkovStateModel(signAssigner{}, 3, 1, 1)
	require.NoError(Te, err)
	require.NoError(Te, m.Fit(twoWellData()))
	//state 2 never appears, so it should be absorbing.
	obs, states, err := m.Sample(20, 2, nil)
	require.NoError(Te, err)
	r, c := obs.Dims()
	assert.Equal(Te, 20, r)
	assert.Equal(Te, 2, c)
	for _, s := range states {
		assert.Equal(Te, 2, s)
	}
	_, empty := m.Centers()
	assert.Equal(Te, []bool{false, false, true}, empty)

	obs, states, err = m.Sample(50, 0, []float64{10, 10})
	require.NoError(Te, err)
	assert.Equal(Te, 0, states[0])
	assert.Equal(Te, []float64{10, 10}, mat.Row(nil, 0, obs))
	centers, _ := m.Centers()
	for t := 1; t < len(states); t++ {
		assert.Contains(Te, []int{0, 1}, states[t])
		assert.Equal(Te, mat.Row(nil, states[t], centers), mat.Row(nil, t, obs))
	}

	//same seed, same walk
	m2, _ := NewMarkovStateModel(signAssigner{}, 3, 1, 1)
	require.NoError(Te, m2.Fit(twoWellData()))
	m3, _ := NewMarkovStateModel(signAssigner{}, 3, 1, 1)
	require.NoError(Te, m3.Fit(twoWellData()))
	_, s2, _ := m2.Sample(30, 0, nil)
	_, s3, _ := m3.Sample(30, 0, nil)
	assert.Equal(Te, s2, s3)

	_, _, err = m.Sample(0, 0, nil)
	assert.Error(Te, err)
	_, _, err = m.Sample(5, 3, nil)
	assert.Error(Te, err)
	_, _, err = m.Sample(5, 0, []float64{1})
	assert.Error(Te, err)
}

func TestNewMarkovStateModelErrors(Te *testing.T) {
	_, err := NewMarkovStateModel(nil, 2, 1)
	assert.Error(Te, err)
	_, err = NewMarkovStateModel(signAssigner{}, 0, 1)
	assert.Error(Te, err)
	_, err = NewMarkovStateModel(signAssigner{}, 2, 0)
	assert.Error(Te, err)
	m, _ := NewMarkovStateModel(signAssigner{}, 1, 1)
	assert.Error(Te, m.Fit(twoWellData()), "label 1 is out of range for a 1-state model")
	assert.Error(Te, m.Fit(nil))
}
