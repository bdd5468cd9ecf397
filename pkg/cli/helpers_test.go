// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/jetson-dashboard/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		args    []string
		want    serializer.Format
		wantErr bool
	}{
		{args: nil, want: serializer.FormatJSON},
		{args: []string{"--format", "yaml"}, want: serializer.FormatYAML},
		{args: []string{"-t", "table"}, want: serializer.FormatTable},
		{args: []string{"--format", "xml"}, wantErr: true},
		{args: []string{"--format", ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(joinArgs(tt.args), func(t *testing.T) {
			var got serializer.Format
			var gotErr error
			cmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{formatFlag()},
				Action: func(_ context.Context, c *cli.Command) error {
					got, gotErr = parseOutputFormat(c)
					return nil
				},
			}

			require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, tt.args...)))
			if tt.wantErr {
				assert.Error(t, gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func joinArgs(args []string) string {
	if len(args) == 0 {
		return "default"
	}
	out := args[0]
	for _, a := range args[1:] {
		out += "_" + a
	}
	return out
}
