// Package camgeom contains the batched coordinate types shared by camera models and the
// capability interface those models implement.
//
// Every table is row-major with one sample per row. Pixels have two columns (u, v);
// camera-frame points and ray directions have three (x, y, z). The camera frame has its
// origin at the optical centre and the optical axis along +Z.
package camgeom
