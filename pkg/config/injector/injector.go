// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package injector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.API_KEY}, ${ssm./app/config}, ${secret.db_pass#password}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Resolver busca valores externos (SSM Parameter Store e Secrets Manager).
// *awsclient.Lookup satisfaz esta interface.
type Resolver interface {
	Parameter(ctx context.Context, name string) (string, error)
	Secret(ctx context.Context, ref string) (string, error)
}

type Injector struct {
	resolver Resolver
}

// New cria um Injector. Com resolver nil apenas ${env.*} é suportado.
func New(resolver Resolver) *Injector {
	return &Injector{resolver: resolver}
}

// Inject substitui os placeholders em todas as strings alcançáveis a partir
// de target (campos, ponteiros, slices e mapas).
func (i *Injector) Inject(ctx context.Context, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			value := v.Field(k)
			if !value.CanSet() {
				continue
			}
			if err := i.injectRecursive(ctx, value); err != nil {
				return fmt.Errorf("%s: %w", v.Type().Field(k).Name, err)
			}
		}

	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		newValue, err := i.interpolateString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(newValue)

	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && !v.IsNil() {
			return i.injectMap(ctx, v)
		}

	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var errs []error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		// match é algo como "${env.VAR_NAME}"
		sub := pattern.FindStringSubmatch(match)
		val, err := i.fetchValue(ctx, sub[1], sub[2])
		if err != nil {
			errs = append(errs, err)
			return match
		}
		return val
	})

	return result, errors.Join(errs...)
}

// injectMap lida com mapas dinâmicos (valores string ou mapas aninhados)
func (i *Injector) injectMap(ctx context.Context, v reflect.Value) error {
	iter := v.MapRange()
	updates := make(map[string]reflect.Value)

	for iter.Next() {
		key := iter.Key()
		elem := iter.Value()
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if !elem.IsValid() {
			continue
		}

		switch elem.Kind() {
		case reflect.String:
			newVal, err := i.interpolateString(ctx, elem.String())
			if err != nil {
				return fmt.Errorf("%s: %w", key.String(), err)
			}
			updates[key.String()] = reflect.ValueOf(newVal).Convert(v.Type().Elem())
		case reflect.Map:
			if elem.Type().Key().Kind() == reflect.String && !elem.IsNil() {
				if err := i.injectMap(ctx, elem); err != nil {
					return err
				}
			}
		}
	}

	for k, val := range updates {
		v.SetMapIndex(reflect.ValueOf(k).Convert(v.Type().Key()), val)
	}
	return nil
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		// Variável não encontrada resulta em string vazia
		return os.Getenv(key), nil

	case "ssm":
		if i.resolver == nil {
			return "", fmt.Errorf("placeholder ${ssm.%s} sem resolver AWS", key)
		}
		return i.resolver.Parameter(ctx, key)

	case "secret":
		if i.resolver == nil {
			return "", fmt.Errorf("placeholder ${secret.%s} sem resolver AWS", key)
		}
		return i.resolver.Secret(ctx, key)
	}

	return "", fmt.Errorf("fonte desconhecida: %s", sourceType)
}
