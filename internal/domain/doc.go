// Package domain defines the core entities of the stock metadata tool:
// the generated metadata for an image, the results shown to the user, the
// history records kept between runs, and the uploaded images themselves,
// together with the validation rules that apply to each of them.
package domain
