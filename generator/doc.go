// Package generator instantiates container templates. A Generator copies a
// fixed template resource (template_array.txt or
// template_doubly_linked_list.txt, looked up in TemplateDir) to a target path
// and substitutes its placeholder tokens with the replacer package.
//
// CreateArray and CreateDoublyLinkedList are the two fixed facades; Generate
// runs the same copy-then-substitute sequence for any template.
package generator
