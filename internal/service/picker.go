package service

import "math/rand/v2"

// Picker elige un índice en [0, n). Permite selección determinista en tests.
type Picker func(n int) int

func RandomPicker() Picker {
	return func(n int) int {
		if n <= 0 {
			return 0
		}
		return rand.IntN(n)
	}
}

func pickOne(p Picker, options []string) string {
	if len(options) == 0 {
		return ""
	}
	if p == nil {
		p = RandomPicker()
	}
	i := p(len(options))
	if i < 0 || i >= len(options) {
		i = 0
	}
	return options[i]
}
