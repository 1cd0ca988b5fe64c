// Copyright 2025 seminarFairML Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderPlot(t *testing.T) {
	data, err := RenderPlot(parityReport())
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestSavePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "precision.png")
	err := SavePlot(parityReport(), path)
	assert.NoError(t, err)
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestSavePlotUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "precision.png")
	err := SavePlot(parityReport(), path)
	assert.Error(t, err)
}
