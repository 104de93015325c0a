// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import "github.com/MKhiriev/go-face-lock/models"

// recordLine is the JSON layout of one recorded frame. The same face layout
// is used in detector process responses.
type recordLine struct {
	Image []byte       `json:"image,omitempty"`
	Faces []recordFace `json:"faces"`
}

type recordFace struct {
	Box    [4]int       `json:"box"`
	Points [][2]float64 `json:"points"`
}

func (f recordFace) toModel() models.Face {
	pts := make(models.LandmarkSample, len(f.Points))
	for i, p := range f.Points {
		pts[i] = models.Point{X: p[0], Y: p[1]}
	}
	return models.Face{
		Box:       models.Box{X: f.Box[0], Y: f.Box[1], W: f.Box[2], H: f.Box[3]},
		Landmarks: pts,
	}
}

func fromModelFace(face models.Face) recordFace {
	pts := make([][2]float64, len(face.Landmarks))
	for i, p := range face.Landmarks {
		pts[i] = [2]float64{p.X, p.Y}
	}
	return recordFace{
		Box:    [4]int{face.Box.X, face.Box.Y, face.Box.W, face.Box.H},
		Points: pts,
	}
}

func toModelFaces(in []recordFace) []models.Face {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Face, len(in))
	for i, f := range in {
		out[i] = f.toModel()
	}
	return out
}
