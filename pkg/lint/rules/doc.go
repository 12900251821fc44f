// Package rules provides the built-in lint rules for hbslint.
//
// # Rules
//
//   - HBS001: hbs-template-literals - Handlebars markup in hbs tagged
//     templates should pass the template linter
//
// # Rule IDs
//
// Rule IDs use the HBSxxx namespace. The names the rule had as an ESLint
// plugin rule are registered as aliases by RegisterLegacyAliases.
//
// # Registration
//
// Rules are registered with the default registry via RegisterAll.
// Each rule implements lint.Rule: it declares a CUE options schema and
// returns node visitors from Create, once per lint session.
package rules
