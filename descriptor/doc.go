// Package descriptor models managed types and member signatures as
// pure values, independent of any live runtime.
//
// A Class is either a primitive (fixed singletons Void through Double,
// plus the String convenience singleton) or a reference type built
// with Named. Classes derive their array type with ArrayOf and their
// runtime type-signature string with Signature; both are pure and
// total.
//
// Member signatures are built fluently:
//
//	sig := descriptor.Named("java/util/Map").
//	    Method("put").
//	    Parameter(descriptor.Named("java/lang/Object")).
//	    Parameter(descriptor.Named("java/lang/Object")).
//	    Returns(descriptor.Named("java/lang/Object"))
//
// Parameter order is semantically significant: the ordered list is the
// call signature, and swapping two parameters produces a different
// descriptor string and therefore resolves a different member.
//
// Descriptors only become runtime-bound when passed to the resolution
// API in package jvm.
package descriptor
