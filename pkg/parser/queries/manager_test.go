package queries

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

func setup(t *testing.T) (*parser.ParserManager, *QueryManager) {
	t.Helper()
	logger := util.DiscardLogger()
	pm := parser.NewParserManager(logger)
	qm := NewQueryManager(pm, logger)
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return pm, qm
}

func run(t *testing.T, pm *parser.ParserManager, qm *QueryManager, path, source string, qtype QueryType) []QueryMatch {
	t.Helper()
	tree, err := pm.ParseFile([]byte(source), path)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	lang := parser.DetectLanguage(path)
	query, err := qm.GetQuery(lang, parser.IsTSXFile(path), qtype)
	require.NoError(t, err)

	matches, err := qm.ExecuteQuery(tree, query, []byte(source))
	require.NoError(t, err)
	return matches
}

func TestQueryCompilation(t *testing.T) {
	_, qm := setup(t)
	for _, qtype := range []QueryType{QueryTypeStyleImports, QueryTypeStories} {
		for _, tc := range []struct {
			lang  parser.Language
			isTSX bool
		}{
			{parser.LanguageTypeScript, false},
			{parser.LanguageTypeScript, true},
			{parser.LanguageJavaScript, false},
		} {
			q, err := qm.GetQuery(tc.lang, tc.isTSX, qtype)
			require.NoError(t, err, "%s %s tsx=%v", qtype, tc.lang, tc.isTSX)
			assert.NotNil(t, q)
		}
	}
}

func TestStyleImports(t *testing.T) {
	pm, qm := setup(t)
	source := `import React from 'react';
import styles from './Button.module.css';
import * as theme from "../theme.css";
import './reset.css';
import { cx } from './cx';
`
	matches := run(t, pm, qm, "Button.tsx", source, QueryTypeStyleImports)

	sources := map[string]string{}
	for _, m := range matches {
		src, ok := m.Capture("style.source")
		require.True(t, ok)
		if b, ok := m.Capture("style.binding"); ok {
			sources[src.Text] = b.Text
		} else if _, seen := sources[src.Text]; !seen {
			sources[src.Text] = ""
		}
	}

	assert.Equal(t, map[string]string{
		"./Button.module.css": "styles",
		"../theme.css":        "theme",
		"./reset.css":         "",
	}, sources)
}

func TestStories(t *testing.T) {
	pm, qm := setup(t)
	source := `import { Button } from './Button';
export default { title: 'Button', component: Button };
export const Primary = { args: { variant: 'primary' } };
const Template = (args) => <Button {...args} />;
export const Small = Template.bind({});
Small.args = { size: 'sm' };
`
	matches := run(t, pm, qm, "Button.stories.jsx", source, QueryTypeStories)

	var names, targets []string
	for _, m := range matches {
		if c, ok := m.Capture("story.name"); ok {
			names = append(names, c.Text)
		}
		if c, ok := m.Capture("story.target"); ok {
			targets = append(targets, c.Text)
		}
	}
	assert.Equal(t, []string{"Primary", "Small"}, names)
	assert.Equal(t, []string{"Small"}, targets)
}

func TestQueryCache(t *testing.T) {
	_, qm := setup(t)
	q1, err := qm.GetQuery(parser.LanguageTypeScript, true, QueryTypeStories)
	require.NoError(t, err)
	q2, err := qm.GetQuery(parser.LanguageTypeScript, true, QueryTypeStories)
	require.NoError(t, err)
	assert.Same(t, q1, q2)

	q3, err := qm.GetQuery(parser.LanguageTypeScript, false, QueryTypeStories)
	require.NoError(t, err)
	assert.NotSame(t, q1, q3, "tsx and ts compile separately")
}

func TestConcurrentQueryExecution(t *testing.T) {
	pm, qm := setup(t)
	source := []byte(`import styles from './Card.module.css';`)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := pm.Parse(source, parser.LanguageTypeScript, true)
			if !assert.NoError(t, err) {
				return
			}
			defer tree.Close()
			q, err := qm.GetQuery(parser.LanguageTypeScript, true, QueryTypeStyleImports)
			if !assert.NoError(t, err) {
				return
			}
			matches, err := qm.ExecuteQuery(tree, q, source)
			assert.NoError(t, err)
			assert.NotEmpty(t, matches)
		}()
	}
	wg.Wait()
}

func TestExecuteQuery_NilInputs(t *testing.T) {
	pm, qm := setup(t)
	_, err := qm.ExecuteQuery(nil, nil, nil)
	assert.Error(t, err)

	tree, err := pm.Parse([]byte("x"), parser.LanguageJavaScript, false)
	require.NoError(t, err)
	defer tree.Close()
	_, err = qm.ExecuteQuery(tree, nil, []byte("x"))
	assert.Error(t, err)
}

func TestGetQuery_UnsupportedLanguage(t *testing.T) {
	_, qm := setup(t)
	_, err := qm.GetQuery(parser.LanguageCSS, false, QueryTypeStories)
	assert.Error(t, err)
	_, err = qm.GetQuery(parser.LanguageTypeScript, false, QueryType(99))
	assert.Error(t, err)
}

func TestParseCaptureName(t *testing.T) {
	c, f := parseCaptureName("style.source")
	assert.Equal(t, "style", c)
	assert.Equal(t, "source", f)
	c, f = parseCaptureName("plain")
	assert.Equal(t, "plain", c)
	assert.Equal(t, "", f)
}
