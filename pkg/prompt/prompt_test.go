package prompt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/thirdeye/pkg/prompt"
)

func TestLoadWithoutFile(t *testing.T) {
	set, err := prompt.Load("")
	gt.NoError(t, err)
	gt.Equal(t, set.DescribeImage, prompt.Default().DescribeImage)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yml")
	content := "system: You are a pirate assistant.\ndescribe_image: What be in this picture?\n"
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := prompt.Load(path)
	gt.NoError(t, err)
	gt.Equal(t, set.System, "You are a pirate assistant.")
	gt.Equal(t, set.DescribeImage, "What be in this picture?")
	gt.Equal(t, set.Chat, prompt.Default().Chat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := prompt.Load("/no/such/prompts.yml")
	gt.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yml")
	gt.NoError(t, os.WriteFile(path, []byte("{invalid: [unclosed"), 0o644))

	_, err := prompt.Load(path)
	gt.Error(t, err)
}
