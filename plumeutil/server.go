/*
Copyright © 2024 the plume authors.
This file is part of plume.

plume is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

plume is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with plume.  If not, see <http://www.gnu.org/licenses/>.
*/

package plumeutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/plume"
	"github.com/spatialmodel/plume/plumeplot"
	"github.com/spf13/cast"
)

// Server draws plumes in response to HTTP requests. Each request is
// calculated independently, so a Server can handle many requests at once.
type Server struct {
	// Defaults holds the parameter values used when a request
	// doesn't specify them.
	Defaults plume.Parameters

	// Options specifies how figures are drawn.
	Options plumeplot.Options

	Log logrus.FieldLogger

	// MaxGridPoints is the largest grid a single request may ask for.
	// Zero means only plume.MaxGridPoints applies.
	MaxGridPoints int

	mux *http.ServeMux
}

// DefaultMaxRequestGridPoints is the grid size limit of servers created
// by NewServer.
const DefaultMaxRequestGridPoints = 1000000

// NewServer returns a server that uses defaults for parameters missing
// from requests.
func NewServer(defaults plume.Parameters, o plumeplot.Options, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		Defaults:      defaults,
		Options:       o,
		Log:           log,
		MaxGridPoints: DefaultMaxRequestGridPoints,
		mux:           http.NewServeMux(),
	}
	s.mux.HandleFunc("/plume.png", s.imageHandler)
	s.mux.HandleFunc("/reach", s.reachHandler)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ReachResponse is the JSON body returned by the /reach endpoint.
// Reach is null when no centerline point meets the threshold.
type ReachResponse struct {
	EffectiveCs float64  `json:"effective_cs"`
	Reach       *float64 `json:"reach"`
	Clamped     bool     `json:"clamped"`
	Warning     string   `json:"warning,omitempty"`
}

// parseRequest reads the model parameters from query values, falling back
// to defaults for any that are missing.
func parseRequest(q url.Values, defaults plume.Parameters) (plume.Parameters, error) {
	p := defaults
	vars := []*float64{&p.Q, &p.U, &p.D, &p.Z0, &p.Cs}
	names := []string{"Q", "U", "D", "Z0", "Cs"}
	for i, name := range names {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return p, fmt.Errorf("plume: invalid value for %s: %q", name, v)
		}
		*vars[i] = f
	}
	return p, nil
}

// simulate runs the model for the request, writing an error response
// and returning nil if it fails.
func (s *Server) simulate(w http.ResponseWriter, r *http.Request) *plume.Result {
	p, err := parseRequest(r.URL.Query(), s.Defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	log := s.Log.WithFields(logrus.Fields{
		"path": r.URL.Path,
		"Q":    p.Q,
		"U":    p.U,
		"D":    p.D,
		"Z0":   p.Z0,
		"Cs":   p.Cs,
	})
	if err := s.checkGridSize(p.D); err != nil {
		log.WithField("error", err).Info("rejected request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	res, err := plume.Simulate(p)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, plume.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		log.WithField("error", err).Info("rejected request")
		http.Error(w, err.Error(), status)
		return nil
	}
	logReach(log, res)
	return res
}

// checkGridSize returns an error if the grid for spacing d has more
// points than the server allows. Invalid spacings are left for
// plume.Simulate to report.
func (s *Server) checkGridSize(d float64) error {
	if s.MaxGridPoints <= 0 {
		return nil
	}
	g, err := plume.NewGrid(d)
	if err != nil {
		return nil
	}
	if n := g.Len(); n > s.MaxGridPoints {
		return fmt.Errorf("plume: grid spacing D=%g gives %d points but this server allows at most %d", d, n, s.MaxGridPoints)
	}
	return nil
}

func (s *Server) imageHandler(w http.ResponseWriter, r *http.Request) {
	o := s.Options
	if l := r.URL.Query().Get("Levels"); l != "" {
		levels, err := cast.ToIntE(l)
		if err != nil {
			http.Error(w, fmt.Sprintf("plume: invalid value for Levels: %q", l), http.StatusBadRequest)
			return
		}
		o.Levels = levels
	}
	if o.Levels != 0 {
		if err := plumeplot.CheckLevels(o.Levels); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	res := s.simulate(w, r)
	if res == nil {
		return
	}
	// Each request needs its own color map because its range is
	// set when the figure is drawn.
	o.ColorMap = plumeplot.DefaultOptions().ColorMap
	fig, err := plumeplot.New(res, o)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if res.Reach.Clamped {
		w.Header().Set("X-Plume-Warning", res.Reach.Warning())
	}
	w.Header().Set("X-Plume-Effective-Cs", strconv.FormatFloat(res.Reach.EffectiveCs, 'g', -1, 64))
	reach := ""
	if res.Reach.Found {
		reach = strconv.FormatFloat(res.Reach.Distance, 'g', -1, 64)
	}
	w.Header().Set("X-Plume-Reach", reach)
	if err := fig.WriteTo(w, "png"); err != nil {
		s.Log.WithField("error", err).Error("writing figure")
	}
}

func (s *Server) reachHandler(w http.ResponseWriter, r *http.Request) {
	res := s.simulate(w, r)
	if res == nil {
		return
	}
	o := ReachResponse{
		EffectiveCs: res.Reach.EffectiveCs,
		Clamped:     res.Reach.Clamped,
		Warning:     res.Reach.Warning(),
	}
	if res.Reach.Found {
		d := res.Reach.Distance
		o.Reach = &d
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o); err != nil {
		s.Log.WithField("error", err).Error("writing reach")
	}
}
