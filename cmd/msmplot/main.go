/*
 * main.go, part of msmgo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// msmplot draws frames sampled from a trajectory collection over the density
// of the whole collection. The frames are read from the store, selected along
// one dimension, or taken from a random walk of a Markov state model fitted
// to the data.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	msm "github.com/rmera/msmgo"
	"github.com/rmera/msmgo/cluster"
	"github.com/rmera/msmgo/msmplot"
	"github.com/rmera/msmgo/store"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

type options struct {
	store     string
	dataset   string
	inds      string
	sampleDim int
	frames    int
	walk      int
	clusters  int
	landmarks int
	linkage   string
	lag       int
	config    string
	out       string
	width     float64
	height    float64
	seed      int64
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("msmplot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.store, "store", "", "store file with the projected trajectories (required)")
	fs.StringVar(&o.dataset, "dataset", "ttrajs", "key of the trajectory mapping in the store")
	fs.StringVar(&o.inds, "inds", "tica-dimension-0-inds", "key of the sampled index pairs in the store")
	fs.IntVar(&o.sampleDim, "sample-dim", -1, "select frames along this dimension instead of reading index pairs")
	fs.IntVar(&o.frames, "frames", 200, "number of frames for -sample-dim")
	fs.IntVar(&o.walk, "walk", 0, "if >0, sample a random walk of this many steps from a Markov state model")
	fs.IntVar(&o.clusters, "clusters", 20, "number of states for -walk")
	fs.IntVar(&o.landmarks, "landmarks", 500, "frames clustered for -walk, 0 for all of them")
	fs.StringVar(&o.linkage, "linkage", "ward", "linkage for the clustering in -walk: average, complete, single or ward")
	fs.IntVar(&o.lag, "lag", 1, "lag time, in frames, for -walk")
	fs.StringVar(&o.config, "config", "", "YAML file with the plot configuration")
	fs.StringVar(&o.out, "o", "tica-dimension-0-heatmap.png", "output figure, the format is given by the extension")
	fs.Float64Var(&o.width, "width", 7, "figure width in inches")
	fs.Float64Var(&o.height, "height", 5, "figure height in inches")
	fs.Int64Var(&o.seed, "seed", 1, "random seed for -walk")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: msmplot -store FILE [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.store == "" {
		fs.Usage()
		return nil, fmt.Errorf("a store is required")
	}
	if o.sampleDim >= 0 && o.walk > 0 {
		return nil, fmt.Errorf("-sample-dim and -walk can't be used together")
	}
	if o.width <= 0 || o.height <= 0 {
		return nil, fmt.Errorf("figure size must be positive, got %gx%g", o.width, o.height)
	}
	return o, nil
}

// loadConfig returns the default configuration, overwritten by the values
// present in the YAML file name, if given.
func loadConfig(name string) (msmplot.Config, error) {
	cfg := msmplot.DefaultConfig()
	if name == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", name, err)
	}
	return cfg, cfg.Validate()
}

// walk fits a Markov state model on the collection and returns the frames
// nearest to the states visited in a random walk started at the first frame.
func walk(C msm.Collection, o *options, logger *log.Logger) ([]msm.IndexPair, error) {
	link, err := cluster.ParseLinkage(o.linkage)
	if err != nil {
		return nil, err
	}
	nl := o.landmarks
	if nl >= C.Frames() {
		nl = 0
	}
	cl, labels, err := cluster.FitCollection(C, cluster.Options{NClusters: o.clusters, NLandmarks: nl, Linkage: link, Seed: o.seed})
	if err != nil {
		return nil, err
	}
	ids := C.IDs()
	data := make([]*mat.Dense, 0, len(ids))
	for _, id := range ids {
		data = append(data, C[id])
	}
	model, err := msm.NewMarkovStateModel(cl, cl.NClusters(), o.lag, o.seed)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(data); err != nil {
		return nil, err
	}
	ll, err := model.Score(data)
	if err != nil {
		return nil, err
	}
	logger.Printf("fitted a %d-state model, log-likelihood %.3f", cl.NClusters(), ll)
	first := C[ids[0]]
	obs, _, err := model.Sample(o.walk, labels[ids[0]][0], mat.Row(nil, 0, first))
	if err != nil {
		return nil, err
	}
	return msm.NearestFrames(C, obs)
}

func run(args []string, stderr io.Writer) error {
	logger := log.New(stderr, "msmplot: ", 0)
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o.config)
	if err != nil {
		return err
	}
	st, err := store.Open(o.store)
	if err != nil {
		return err
	}
	_, C, err := st.Dataset(o.dataset)
	if err != nil {
		return err
	}
	var inds []msm.IndexPair
	switch {
	case o.walk > 0:
		inds, err = walk(C, o, logger)
	case o.sampleDim >= 0:
		inds, err = msm.SampleDimension(C, o.sampleDim, o.frames)
	default:
		var v store.Value
		v, err = st.Get(o.inds)
		if err == nil {
			inds, err = v.Pairs()
		}
	}
	if err != nil {
		return err
	}
	path, err := msm.BuildSampledPath(C, inds)
	if err != nil {
		return err
	}
	p, err := msmplot.NewSampledPlot(C, path, cfg)
	if err != nil {
		return err
	}
	if err := msmplot.Save(p, vg.Length(o.width)*vg.Inch, vg.Length(o.height)*vg.Inch, o.out); err != nil {
		return err
	}
	logger.Printf("%d frames from %d trajectories drawn in %s", path.Len(), len(C), o.out)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "msmplot:", err)
		os.Exit(1)
	}
}
